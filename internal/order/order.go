package order

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"tokoku.id/tokoku-web/internal/cart"
	"tokoku.id/tokoku-web/internal/format"
)

// Draft carries the buyer-supplied checkout fields. It exists only between
// form submit and handoff or cancellation; nothing here is persisted.
type Draft struct {
	Name    string
	Address string
	Phone   string
	Method  string
}

// Message is the formatted order ready for the messaging handoff.
type Message struct {
	Ref  string
	Text string
}

// ValidationError reports a single rejected checkout field. It blocks the
// transition into order review and never alters any store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("order: field %s: %s", e.Field, e.Reason)
}

// Formatter turns a cart snapshot plus a draft into the outgoing plain-text
// order message. The accounts table is validated at startup, so a configured
// non-COD method always resolves here.
type Formatter struct {
	codMethod   string
	methods     []string
	accounts    map[string]string
	titleBudget int
}

func NewFormatter(codMethod string, methods []string, accounts map[string]string, titleBudget int) *Formatter {
	if titleBudget <= 0 {
		titleBudget = 25
	}
	return &Formatter{
		codMethod:   codMethod,
		methods:     methods,
		accounts:    accounts,
		titleBudget: titleBudget,
	}
}

// Validate checks the draft against the current cart snapshot and returns
// every rejected field. An empty result means Format will succeed.
func (f *Formatter) Validate(d Draft, lines []cart.Line) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Reason: "nama wajib diisi"})
	}
	if strings.TrimSpace(d.Address) == "" {
		errs = append(errs, ValidationError{Field: "address", Reason: "alamat wajib diisi"})
	}
	if strings.TrimSpace(d.Phone) == "" {
		errs = append(errs, ValidationError{Field: "phone", Reason: "nomor HP wajib diisi"})
	}
	if !f.hasMethod(d.Method) {
		errs = append(errs, ValidationError{Field: "method", Reason: "pilih metode pembayaran"})
	}
	if len(lines) == 0 {
		errs = append(errs, ValidationError{Field: "cart", Reason: "keranjang masih kosong"})
	}
	return errs
}

// Format validates and renders the deterministic multi-line order text. The
// reference code is stamped fresh per call so the seller can track chats.
func (f *Formatter) Format(d Draft, lines []cart.Line) (Message, error) {
	if errs := f.Validate(d, lines); len(errs) != 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return Message{}, errors.Join(joined...)
	}

	ref := newRef()
	var b strings.Builder
	b.WriteString("*PESANAN BARU*\n")
	fmt.Fprintf(&b, "Ref: %s\n", ref)
	fmt.Fprintf(&b, "Nama: %s\n", strings.TrimSpace(d.Name))
	fmt.Fprintf(&b, "Alamat: %s\n", strings.TrimSpace(d.Address))
	fmt.Fprintf(&b, "No. HP: %s\n", strings.TrimSpace(d.Phone))
	fmt.Fprintf(&b, "Metode: %s\n", d.Method)
	b.WriteString("\n*Rincian Produk:*\n")

	var total int64
	for i, l := range lines {
		total += l.Subtotal()
		fmt.Fprintf(&b, "%d. %s (%dx) - %s\n",
			i+1, Truncate(l.Title, f.titleBudget), l.Quantity, format.Rupiah(l.Subtotal()))
	}
	fmt.Fprintf(&b, "\n*Total:* %s\n", format.Rupiah(total))

	if d.Method != f.codMethod {
		fmt.Fprintf(&b, "\nMohon transfer ke nomor: %s\n", f.accounts[d.Method])
		b.WriteString("Setelah transfer, screenshot dan kirim via WhatsApp.\n")
	}
	b.WriteString("\nTerima kasih 🙏")

	return Message{Ref: ref, Text: b.String()}, nil
}

// TransferHint returns the inline instruction shown when a non-COD method is
// selected in the form, and "" for COD or unselected methods.
func (f *Formatter) TransferHint(method string) string {
	if method == "" || method == f.codMethod || !f.hasMethod(method) {
		return ""
	}
	return fmt.Sprintf("Mohon transfer ke nomor: %s dan kirim screenshot bukti transfer di WhatsApp.", f.accounts[method])
}

func (f *Formatter) hasMethod(method string) bool {
	for _, m := range f.methods {
		if m == method {
			return true
		}
	}
	return false
}

// Truncate shortens a title to the rune budget, appending an ellipsis only
// when something was actually cut.
func Truncate(s string, budget int) string {
	if budget <= 0 || utf8.RuneCountInString(s) <= budget {
		return s
	}
	runes := []rune(s)
	return string(runes[:budget]) + "…"
}

func newRef() string {
	id := uuid.New().String()
	return "TK-" + strings.ToUpper(id[:8])
}
