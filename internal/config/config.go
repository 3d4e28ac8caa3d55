package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "TOKOKU_CONFIG_FILE"

type Catalog struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Currency struct {
	// ConversionRate converts catalog unit prices (USD) into whole
	// display rupiah at the moment a cart line is created.
	ConversionRate float64 `mapstructure:"conversion_rate"`
	Symbol         string  `mapstructure:"symbol"`
	Precision      int     `mapstructure:"precision"`
}

type Seller struct {
	Phone        string `mapstructure:"phone"`
	WhatsAppHost string `mapstructure:"whatsapp_host"`
}

type Payments struct {
	CODMethod string            `mapstructure:"cod_method"`
	Methods   []string          `mapstructure:"methods"`
	Accounts  map[string]string `mapstructure:"accounts"`
}

type UI struct {
	ToastTTL           time.Duration `mapstructure:"toast_ttl"`
	GridTitleBudget    int           `mapstructure:"grid_title_budget"`
	CartTitleBudget    int           `mapstructure:"cart_title_budget"`
	MessageTitleBudget int           `mapstructure:"message_title_budget"`
}

type Config struct {
	ListenAddr string   `mapstructure:"listen_addr"`
	LogLevel   string   `mapstructure:"log_level"`
	Catalog    Catalog  `mapstructure:"catalog"`
	Currency   Currency `mapstructure:"currency"`
	Seller     Seller   `mapstructure:"seller"`
	Payments   Payments `mapstructure:"payments"`
	UI         UI       `mapstructure:"ui"`
}

// Load reads the optional yaml config file and overlays it on the built-in
// defaults. A missing file is fine; a malformed one is fatal at startup.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := configFilepath(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(*os.PathError); !ok {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog.api_url", "https://fakestoreapi.com/products")
	v.SetDefault("catalog.timeout", 8*time.Second)
	v.SetDefault("currency.conversion_rate", 15000)
	v.SetDefault("currency.symbol", "Rp")
	v.SetDefault("currency.precision", 0)
	v.SetDefault("seller.phone", "6289615170747")
	v.SetDefault("seller.whatsapp_host", "api.whatsapp.com")
	v.SetDefault("payments.cod_method", "COD")
	v.SetDefault("payments.methods", []string{"BCA", "BRI", "BNI", "DANA", "COD"})
	v.SetDefault("payments.accounts", map[string]string{
		"BCA":  "123-456-7890 a.n. TokoKu",
		"BRI":  "987-654-3210 a.n. TokoKu",
		"BNI":  "456-789-1230 a.n. TokoKu",
		"DANA": "0896-1517-0747 a.n. TokoKu",
	})
	v.SetDefault("ui.toast_ttl", 3*time.Second)
	v.SetDefault("ui.grid_title_budget", 45)
	v.SetDefault("ui.cart_title_budget", 35)
	v.SetDefault("ui.message_title_budget", 25)
}

func configFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	return *arg
}

// Validate enforces the invariants the rest of the service assumes. An
// unmapped non-COD payment method is a configuration error here, never a
// runtime branch in the formatter.
func (c Config) Validate() error {
	if c.Currency.ConversionRate <= 0 {
		return fmt.Errorf("config: currency.conversion_rate must be positive, got %v", c.Currency.ConversionRate)
	}
	if strings.TrimSpace(c.Seller.Phone) == "" {
		return fmt.Errorf("config: seller.phone is required")
	}
	if strings.TrimSpace(c.Seller.WhatsAppHost) == "" {
		return fmt.Errorf("config: seller.whatsapp_host is required")
	}
	if len(c.Payments.Methods) == 0 {
		return fmt.Errorf("config: payments.methods must list at least one method")
	}
	for _, m := range c.Payments.Methods {
		if m == c.Payments.CODMethod {
			continue
		}
		if strings.TrimSpace(c.Payments.Accounts[m]) == "" {
			return fmt.Errorf("config: payment method %s has no destination account", m)
		}
	}
	return nil
}

// HasMethod reports whether the method is one of the configured choices.
func (c Config) HasMethod(method string) bool {
	for _, m := range c.Payments.Methods {
		if m == method {
			return true
		}
	}
	return false
}
