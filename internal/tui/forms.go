package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/charmbracelet/huh"
)

const (
	authLogin  = "login"
	authSignup = "signup"
)

// authValues backs the login / sign-up form. Credentials are collected for
// the look of the flow only; nothing checks them.
type authValues struct {
	Mode     string
	Name     string
	Email    string
	Password string
}

// OwnerName is the display name the form yields: the name field on sign-up,
// the email local part on login. Empty means keep the current name.
func (v authValues) OwnerName() string {
	if v.Mode == authSignup {
		return strings.TrimSpace(v.Name)
	}
	email := strings.TrimSpace(v.Email)
	if i := strings.IndexByte(email, '@'); i >= 0 {
		email = email[:i]
	}
	return email
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '@'); i <= 0 || i == len(s)-1 {
		return errors.New("enter an email like you@college.edu")
	}
	return nil
}

func newAuthForm(v *authValues) *huh.Form {
	if v.Mode == "" {
		v.Mode = authLogin
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("fintrack").
				Description("Student budget tracker"),
			huh.NewSelect[string]().
				Title("Welcome").
				Options(
					huh.NewOption("Log in", authLogin),
					huh.NewOption("Create an account", authSignup),
				).
				Value(&v.Mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Value(&v.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Value(&v.Email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.Password),
		).WithHideFunc(func() bool { return v.Mode != authSignup }),
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&v.Email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.Password),
		).WithHideFunc(func() bool { return v.Mode != authLogin }),
	).WithShowHelp(true)
}

// paymentValues backs the payment form. All fields are strings so the form
// can bind to them directly; Payment converts them.
type paymentValues struct {
	Counterparty string
	Amount       string
	Category     string
	Description  string
}

// Payment converts the form values into a ledger payment.
func (v paymentValues) Payment() (ledger.Payment, error) {
	amount, err := model.ParseAmount(v.Amount)
	if err != nil {
		return ledger.Payment{}, err
	}
	c, err := model.ParseCategory(v.Category)
	if err != nil {
		return ledger.Payment{}, err
	}
	desc := strings.TrimSpace(v.Description)
	if desc == "" {
		desc = "Payment to " + strings.TrimSpace(v.Counterparty)
	}
	return ledger.Payment{
		Amount:         amount,
		Category:       c,
		Description:    desc,
		CounterpartyID: strings.TrimSpace(v.Counterparty),
	}, nil
}

func newPaymentForm(v *paymentValues) *huh.Form {
	opts := make([]huh.Option[string], 0, len(model.AllCategories))
	for _, c := range model.AllCategories {
		opts = append(opts, huh.NewOption(c.String(), c.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Pay to (UPI id)").
				Value(&v.Counterparty).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("expected an id like name@bank")
					}
					return nil
				}),
			huh.NewInput().
				Title("Amount ($)").
				Placeholder("0.00").
				Value(&v.Amount).
				Validate(func(s string) error {
					d, err := model.ParseAmount(s)
					if err != nil || !d.IsPositive() {
						return errors.New("enter an amount greater than zero")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(opts...).
				Value(&v.Category),
			huh.NewInput().
				Title("Description").
				Placeholder("What was it for?").
				Value(&v.Description),
		),
	).WithShowHelp(true)
}
