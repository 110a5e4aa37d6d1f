// Package processor implements the payment processor client on the Stripe
// API. All processor error responses are translated to errs kinds here so
// the service layer never inspects Stripe error text.
package processor

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/simonbeirouti/aura/internal/domain/services"
	"github.com/simonbeirouti/aura/internal/errs"
)

type StripeClient struct {
	api *client.API
}

func NewStripeClient(secretKey string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api}
}

func (c *StripeClient) GetPaymentMethod(ctx context.Context, paymentMethodID string) (*services.ProcessorPaymentMethod, error) {
	params := &stripe.PaymentMethodParams{
		Params: stripe.Params{Context: ctx},
	}
	pm, err := c.api.PaymentMethods.Get(paymentMethodID, params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorLookup, "retrieve payment method")
	}
	return paymentMethodFromStripe(pm), nil
}

func (c *StripeClient) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	params := &stripe.PaymentMethodAttachParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
	}
	params.SetIdempotencyKey(uuid.NewString())
	if _, err := c.api.PaymentMethods.Attach(paymentMethodID, params); err != nil {
		return classify(err, errs.KindProcessorOperation, "attach payment method")
	}
	return nil
}

func (c *StripeClient) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	params := &stripe.PaymentMethodDetachParams{
		Params: stripe.Params{Context: ctx},
	}
	if _, err := c.api.PaymentMethods.Detach(paymentMethodID, params); err != nil {
		return classify(err, errs.KindProcessorOperation, "detach payment method")
	}
	return nil
}

func (c *StripeClient) ListPaymentMethods(ctx context.Context, customerID string) ([]services.ProcessorPaymentMethod, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	var methods []services.ProcessorPaymentMethod
	iter := c.api.PaymentMethods.List(params)
	for iter.Next() {
		methods = append(methods, *paymentMethodFromStripe(iter.PaymentMethod()))
	}
	if err := iter.Err(); err != nil {
		return nil, classify(err, errs.KindProcessorLookup, "list payment methods")
	}
	return methods, nil
}

func (c *StripeClient) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	if _, err := c.api.Customers.Update(customerID, params); err != nil {
		return classify(err, errs.KindProcessorOperation, "set default payment method")
	}
	return nil
}

func (c *StripeClient) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*services.ProcessorCustomer, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.SetIdempotencyKey(uuid.NewString())

	cust, err := c.api.Customers.New(params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorOperation, "create customer")
	}
	return customerFromStripe(cust), nil
}

func (c *StripeClient) FindCustomerByEmail(ctx context.Context, email string) (*services.ProcessorCustomer, error) {
	params := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := c.api.Customers.List(params)
	for iter.Next() {
		return customerFromStripe(iter.Customer()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, classify(err, errs.KindProcessorLookup, "search customers")
	}
	return nil, nil
}

func (c *StripeClient) CreateSubscription(ctx context.Context, p services.CreateSubscriptionParams) (*services.ProcessorSubscription, error) {
	params := &stripe.SubscriptionParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(p.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(p.PriceID)},
		},
	}
	if p.DefaultPaymentMethodID != "" {
		params.DefaultPaymentMethod = stripe.String(p.DefaultPaymentMethodID)
	}
	if p.UserID != "" {
		params.AddMetadata("user_id", p.UserID)
	}
	params.SetIdempotencyKey(uuid.NewString())

	sub, err := c.api.Subscriptions.New(params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorOperation, "create subscription")
	}
	return subscriptionFromStripe(sub), nil
}

func (c *StripeClient) CancelSubscriptionAtPeriodEnd(ctx context.Context, subscriptionID string) (*services.ProcessorSubscription, error) {
	params := &stripe.SubscriptionParams{
		Params:            stripe.Params{Context: ctx},
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	sub, err := c.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorOperation, "cancel subscription")
	}
	return subscriptionFromStripe(sub), nil
}

func (c *StripeClient) GetSubscription(ctx context.Context, subscriptionID string) (*services.ProcessorSubscription, error) {
	params := &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
	}
	sub, err := c.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorLookup, "retrieve subscription")
	}
	return subscriptionFromStripe(sub), nil
}

func (c *StripeClient) GetPrice(ctx context.Context, priceID string) (*services.ProcessorPrice, error) {
	params := &stripe.PriceParams{
		Params: stripe.Params{Context: ctx},
	}
	price, err := c.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorLookup, "retrieve price")
	}
	return priceFromStripe(price), nil
}

func (c *StripeClient) ListPrices(ctx context.Context, productID string) ([]services.ProcessorPrice, error) {
	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}
	params.Context = ctx

	var prices []services.ProcessorPrice
	iter := c.api.Prices.List(params)
	for iter.Next() {
		prices = append(prices, *priceFromStripe(iter.Price()))
	}
	if err := iter.Err(); err != nil {
		return nil, classify(err, errs.KindProcessorLookup, "list prices")
	}
	return prices, nil
}

func (c *StripeClient) GetProduct(ctx context.Context, productID string) (*services.ProcessorProduct, error) {
	params := &stripe.ProductParams{
		Params: stripe.Params{Context: ctx},
	}
	product, err := c.api.Products.Get(productID, params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorLookup, "retrieve product")
	}
	return productFromStripe(product), nil
}

func (c *StripeClient) CreateProduct(ctx context.Context, name, description string) (*services.ProcessorProduct, error) {
	params := &stripe.ProductParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(name),
	}
	if description != "" {
		params.Description = stripe.String(description)
	}
	params.SetIdempotencyKey(uuid.NewString())

	product, err := c.api.Products.New(params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorOperation, "create product")
	}
	return productFromStripe(product), nil
}

func (c *StripeClient) CreatePrice(ctx context.Context, p services.CreatePriceParams) (*services.ProcessorPrice, error) {
	params := &stripe.PriceParams{
		Params:     stripe.Params{Context: ctx},
		Product:    stripe.String(p.ProductID),
		UnitAmount: stripe.Int64(p.UnitAmount),
		Currency:   stripe.String(p.Currency),
	}
	if p.Interval != "" && p.Interval != "one_time" {
		params.Recurring = &stripe.PriceRecurringParams{
			Interval: stripe.String(p.Interval),
		}
	}
	params.SetIdempotencyKey(uuid.NewString())

	price, err := c.api.Prices.New(params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorOperation, "create price")
	}
	return priceFromStripe(price), nil
}

func (c *StripeClient) CreatePaymentIntent(ctx context.Context, p services.CreatePaymentIntentParams) (*services.ProcessorPaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
	}
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}
	if p.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(p.PaymentMethodID)
	}
	if p.Confirm {
		params.Confirm = stripe.Bool(true)
		params.OffSession = stripe.Bool(true)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorOperation, "create payment intent")
	}
	return paymentIntentFromStripe(intent), nil
}

func (c *StripeClient) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*services.ProcessorPaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}
	intent, err := c.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorLookup, "retrieve payment intent")
	}
	return paymentIntentFromStripe(intent), nil
}

func (c *StripeClient) CreateSetupIntent(ctx context.Context, customerID string) (*services.ProcessorSetupIntent, error) {
	params := &stripe.SetupIntentParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
		PaymentMethodTypes: []*string{
			stripe.String(string(stripe.PaymentMethodTypeCard)),
		},
		Usage: stripe.String(string(stripe.SetupIntentUsageOffSession)),
	}
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := c.api.SetupIntents.New(params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorOperation, "create setup intent")
	}
	return &services.ProcessorSetupIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (c *StripeClient) CreateConnectAccount(ctx context.Context, p services.CreateConnectAccountParams) (*services.ProcessorConnectAccount, error) {
	businessType := stripe.AccountBusinessTypeIndividual
	if p.ContractorType == "business" {
		businessType = stripe.AccountBusinessTypeCompany
	}

	params := &stripe.AccountParams{
		Params:       stripe.Params{Context: ctx},
		Type:         stripe.String(string(stripe.AccountTypeExpress)),
		Email:        stripe.String(p.Email),
		BusinessType: stripe.String(string(businessType)),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	params.AddMetadata("user_id", p.UserID)
	params.SetIdempotencyKey(uuid.NewString())

	account, err := c.api.Accounts.New(params)
	if err != nil {
		return nil, classify(err, errs.KindProcessorOperation, "create connected account")
	}

	completed := account.Requirements != nil && len(account.Requirements.CurrentlyDue) == 0
	return &services.ProcessorConnectAccount{
		ID:                    account.ID,
		RequirementsCompleted: completed,
	}, nil
}

func paymentMethodFromStripe(pm *stripe.PaymentMethod) *services.ProcessorPaymentMethod {
	out := &services.ProcessorPaymentMethod{ID: pm.ID}
	if pm.Customer != nil {
		out.CustomerID = pm.Customer.ID
	}
	if pm.Card != nil {
		out.CardBrand = string(pm.Card.Brand)
		out.CardLast4 = pm.Card.Last4
		out.CardExpMonth = int(pm.Card.ExpMonth)
		out.CardExpYear = int(pm.Card.ExpYear)
	}
	return out
}

func customerFromStripe(cust *stripe.Customer) *services.ProcessorCustomer {
	return &services.ProcessorCustomer{
		ID:    cust.ID,
		Email: cust.Email,
		Name:  cust.Name,
	}
}

func subscriptionFromStripe(sub *stripe.Subscription) *services.ProcessorSubscription {
	out := &services.ProcessorSubscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		out.PriceID = sub.Items.Data[0].Price.ID
	}
	return out
}

func priceFromStripe(price *stripe.Price) *services.ProcessorPrice {
	out := &services.ProcessorPrice{
		ID:         price.ID,
		UnitAmount: price.UnitAmount,
		Currency:   string(price.Currency),
		Interval:   "one_time",
	}
	if price.Product != nil {
		out.ProductID = price.Product.ID
	}
	if price.Recurring != nil {
		out.Interval = string(price.Recurring.Interval)
		out.IntervalCount = int(price.Recurring.IntervalCount)
	}
	return out
}

func productFromStripe(product *stripe.Product) *services.ProcessorProduct {
	return &services.ProcessorProduct{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
	}
}

func paymentIntentFromStripe(intent *stripe.PaymentIntent) *services.ProcessorPaymentIntent {
	return &services.ProcessorPaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
		Metadata:     intent.Metadata,
	}
}

// classify maps a Stripe error onto an errs kind. Two card states are
// recognized by message because Stripe reports them with generic codes: a
// method consumed without being attached can never be attached again, and a
// detach on an unattached method is a no-op for callers.
func classify(err error, fallback errs.Kind, op string) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		msg := strings.ToLower(sErr.Msg)
		switch {
		case strings.Contains(msg, "previously used without being attached"),
			strings.Contains(msg, "may not be used again"):
			return errs.Wrap(errs.KindPermanentlyUnusable, err, "payment method can no longer be attached")
		case strings.Contains(msg, "not attached to a customer"),
			strings.Contains(msg, "detachment is impossible"):
			return errs.Wrap(errs.KindAlreadyDetached, err, "payment method is not attached")
		}
	}
	return errs.Wrap(fallback, err, "failed to %s", op)
}
