package order

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokoku.id/tokoku-web/internal/cart"
)

func newTestFormatter() *Formatter {
	return NewFormatter(
		"COD",
		[]string{"BCA", "BRI", "BNI", "DANA", "COD"},
		map[string]string{
			"BCA":  "123-456-7890 a.n. TokoKu",
			"BRI":  "987-654-3210 a.n. TokoKu",
			"BNI":  "456-789-1230 a.n. TokoKu",
			"DANA": "0896-1517-0747 a.n. TokoKu",
		},
		25,
	)
}

func testLines() []cart.Line {
	return []cart.Line{
		{ProductID: 1, Title: "Test Shirt", Image: "x", Price: 150000, Quantity: 2},
	}
}

func TestFormatCODOrder(t *testing.T) {
	f := newTestFormatter()
	msg, err := f.Format(Draft{Name: "A", Address: "B", Phone: "C", Method: "COD"}, testLines())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(msg.Text, "*PESANAN BARU*\n"))
	assert.Contains(t, msg.Text, "Nama: A")
	assert.Contains(t, msg.Text, "Alamat: B")
	assert.Contains(t, msg.Text, "No. HP: C")
	assert.Contains(t, msg.Text, "Metode: COD")
	assert.Contains(t, msg.Text, "1. Test Shirt (2x) - Rp 300.000")
	assert.Contains(t, msg.Text, "*Total:* Rp 300.000")
	assert.NotContains(t, msg.Text, "Mohon transfer", "COD orders carry no transfer block")
	assert.Contains(t, msg.Text, "Terima kasih")

	assert.True(t, strings.HasPrefix(msg.Ref, "TK-"))
	assert.Contains(t, msg.Text, "Ref: "+msg.Ref)
}

func TestFormatBankTransferBlock(t *testing.T) {
	f := newTestFormatter()
	msg, err := f.Format(Draft{Name: "A", Address: "B", Phone: "C", Method: "BCA"}, testLines())
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "Mohon transfer ke nomor: 123-456-7890 a.n. TokoKu")
	assert.Contains(t, msg.Text, "screenshot dan kirim via WhatsApp")
}

func TestFormatIsDeterministicUpToRef(t *testing.T) {
	f := newTestFormatter()
	d := Draft{Name: "A", Address: "B", Phone: "C", Method: "BCA"}

	m1, err := f.Format(d, testLines())
	require.NoError(t, err)
	m2, err := f.Format(d, testLines())
	require.NoError(t, err)

	strip := func(m Message) string { return strings.Replace(m.Text, m.Ref, "", 1) }
	assert.Equal(t, strip(m1), strip(m2))
}

func TestValidateRejectsBlankFields(t *testing.T) {
	f := newTestFormatter()

	cases := []struct {
		name  string
		draft Draft
		field string
	}{
		{"blank name", Draft{Name: "", Address: "x", Phone: "y", Method: "BCA"}, "name"},
		{"whitespace name", Draft{Name: "   ", Address: "x", Phone: "y", Method: "BCA"}, "name"},
		{"blank address", Draft{Name: "x", Address: "", Phone: "y", Method: "BCA"}, "address"},
		{"blank phone", Draft{Name: "x", Address: "y", Phone: "", Method: "BCA"}, "phone"},
		{"no method", Draft{Name: "x", Address: "y", Phone: "z", Method: ""}, "method"},
		{"unknown method", Draft{Name: "x", Address: "y", Phone: "z", Method: "GOPAY"}, "method"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := f.Validate(tc.draft, testLines())
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)

			_, err := f.Format(tc.draft, testLines())
			assert.Error(t, err)
		})
	}
}

func TestValidateRejectsEmptyCart(t *testing.T) {
	f := newTestFormatter()
	errs := f.Validate(Draft{Name: "A", Address: "B", Phone: "C", Method: "BCA"}, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "cart", errs[0].Field)
}

func TestValidateCollectsAllFailures(t *testing.T) {
	f := newTestFormatter()
	errs := f.Validate(Draft{}, nil)
	assert.Len(t, errs, 5)
}

func TestTruncateOnlyWhenNeeded(t *testing.T) {
	assert.Equal(t, "Test Shirt", Truncate("Test Shirt", 25))
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaa…", Truncate(strings.Repeat("a", 30), 25))
	assert.Equal(t, strings.Repeat("a", 25), Truncate(strings.Repeat("a", 25), 25))
}

func TestTransferHint(t *testing.T) {
	f := newTestFormatter()
	assert.Contains(t, f.TransferHint("DANA"), "0896-1517-0747 a.n. TokoKu")
	assert.Empty(t, f.TransferHint("COD"))
	assert.Empty(t, f.TransferHint(""))
	assert.Empty(t, f.TransferHint("GOPAY"))
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("api.whatsapp.com", "6289615170747", "*PESANAN BARU*\nNama: A")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "api.whatsapp.com", u.Host)
	assert.Equal(t, "/send", u.Path)

	q := u.Query()
	assert.Equal(t, "6289615170747", q.Get("phone"))
	assert.Equal(t, "*PESANAN BARU*\nNama: A", q.Get("text"))
}
