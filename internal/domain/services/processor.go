package services

import "context"

// ProcessorClient is the typed surface of the external payment processor.
// Implementations translate processor error responses into errs kinds (for
// example the "previously used without being attached" signal becomes
// KindPermanentlyUnusable) so callers never match on error text.
type ProcessorClient interface {
	GetPaymentMethod(ctx context.Context, paymentMethodID string) (*ProcessorPaymentMethod, error)
	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
	ListPaymentMethods(ctx context.Context, customerID string) ([]ProcessorPaymentMethod, error)
	// SetDefaultPaymentMethod updates the customer's invoice settings.
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error

	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*ProcessorCustomer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*ProcessorCustomer, error)

	CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*ProcessorSubscription, error)
	CancelSubscriptionAtPeriodEnd(ctx context.Context, subscriptionID string) (*ProcessorSubscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*ProcessorSubscription, error)

	GetPrice(ctx context.Context, priceID string) (*ProcessorPrice, error)
	ListPrices(ctx context.Context, productID string) ([]ProcessorPrice, error)
	GetProduct(ctx context.Context, productID string) (*ProcessorProduct, error)
	CreateProduct(ctx context.Context, name, description string) (*ProcessorProduct, error)
	CreatePrice(ctx context.Context, params CreatePriceParams) (*ProcessorPrice, error)

	CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*ProcessorPaymentIntent, error)
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*ProcessorPaymentIntent, error)
	CreateSetupIntent(ctx context.Context, customerID string) (*ProcessorSetupIntent, error)

	CreateConnectAccount(ctx context.Context, params CreateConnectAccountParams) (*ProcessorConnectAccount, error)
}

// ProcessorPaymentMethod is the processor's view of a card payment method.
// CustomerID is empty when the method is unattached.
type ProcessorPaymentMethod struct {
	ID           string
	CustomerID   string
	CardBrand    string
	CardLast4    string
	CardExpMonth int
	CardExpYear  int
}

type ProcessorCustomer struct {
	ID    string
	Email string
	Name  string
}

type ProcessorSubscription struct {
	ID                string
	CustomerID        string
	Status            string
	CurrentPeriodEnd  int64
	CancelAtPeriodEnd bool
	PriceID           string
}

// ProcessorPrice mirrors a processor price. Interval is "one_time" for
// non-recurring prices.
type ProcessorPrice struct {
	ID            string
	ProductID     string
	UnitAmount    int64
	Currency      string
	Interval      string
	IntervalCount int
}

type ProcessorProduct struct {
	ID          string
	Name        string
	Description string
}

type ProcessorPaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

type ProcessorSetupIntent struct {
	ID           string
	ClientSecret string
}

type ProcessorConnectAccount struct {
	ID                    string
	RequirementsCompleted bool
}

type CreateSubscriptionParams struct {
	CustomerID             string
	PriceID                string
	DefaultPaymentMethodID string
	// UserID is written into subscription metadata for traceability.
	UserID string
}

type CreatePriceParams struct {
	ProductID  string
	UnitAmount int64
	Currency   string
	Interval   string
}

type CreatePaymentIntentParams struct {
	Amount          int64
	Currency        string
	CustomerID      string
	PaymentMethodID string
	// Confirm requests manual confirmation in the same call, used when
	// charging a stored method.
	Confirm  bool
	Metadata map[string]string
}

type CreateConnectAccountParams struct {
	UserID         string
	ContractorType string
	Email          string
}

// PaymentIntentStatusSucceeded is the only status accepted by purchase
// completion.
const PaymentIntentStatusSucceeded = "succeeded"
