package orders

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

var maxOrderAmount = decimal.RequireFromString("99999999.99")

// CreateOrderInput carries what a client submits to open an order.
// Financial fields are never accepted from callers.
type CreateOrderInput struct {
	GigId         string
	FreelancerId  string
	Amount        decimal.Decimal
	CustomerName  string
	CustomerEmail string
	CustomerCpf   string
}

func (in CreateOrderInput) Validate() error {
	var problems []string

	if strings.TrimSpace(in.GigId) == "" {
		problems = append(problems, "gig_id is required")
	}
	if strings.TrimSpace(in.FreelancerId) == "" {
		problems = append(problems, "freelancer_id is required")
	}
	switch {
	case !in.Amount.IsPositive():
		problems = append(problems, "amount must be positive")
	case !in.Amount.Equal(in.Amount.Round(2)):
		problems = append(problems, "amount must have at most 2 decimal places")
	case in.Amount.GreaterThan(maxOrderAmount):
		problems = append(problems, "amount exceeds the maximum order value")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		problems = append(problems, "customer_name is required")
	}
	if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
		problems = append(problems, "customer_email must be a valid email address")
	}
	if cpf := strings.TrimSpace(in.CustomerCpf); len(cpf) < 11 || len(cpf) > 14 {
		problems = append(problems, "customer_cpf must have between 11 and 14 characters")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// DeliverInput is the freelancer's delivery payload
type DeliverInput struct {
	DeliveryFiles string
	DeliveryNote  string
}

func (in DeliverInput) Validate() error {
	files := strings.TrimSpace(in.DeliveryFiles)
	if files == "" {
		return ErrMissingDeliverable
	}

	u, err := url.Parse(files)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: delivery_files must be an absolute http(s) URL", ErrMissingDeliverable)
	}
	return nil
}
