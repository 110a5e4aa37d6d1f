package services

import (
	"context"
	"sync"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

// mockProcessor implements ProcessorClient with overridable funcs. Calls is
// the ordered list of operations invoked, used to assert sequencing.
type mockProcessor struct {
	mu    sync.Mutex
	Calls []string

	GetPaymentMethodFunc    func(ctx context.Context, id string) (*ProcessorPaymentMethod, error)
	AttachFunc              func(ctx context.Context, pmID, customerID string) error
	DetachFunc              func(ctx context.Context, pmID string) error
	SetDefaultFunc          func(ctx context.Context, customerID, pmID string) error
	ListPaymentMethodsFunc  func(ctx context.Context, customerID string) ([]ProcessorPaymentMethod, error)
	CreateCustomerFunc      func(ctx context.Context, email, name string, metadata map[string]string) (*ProcessorCustomer, error)
	FindCustomerFunc        func(ctx context.Context, email string) (*ProcessorCustomer, error)
	CreateSubscriptionFunc  func(ctx context.Context, p CreateSubscriptionParams) (*ProcessorSubscription, error)
	CancelSubscriptionFunc  func(ctx context.Context, id string) (*ProcessorSubscription, error)
	GetSubscriptionFunc     func(ctx context.Context, id string) (*ProcessorSubscription, error)
	GetPriceFunc            func(ctx context.Context, id string) (*ProcessorPrice, error)
	ListPricesFunc          func(ctx context.Context, productID string) ([]ProcessorPrice, error)
	GetProductFunc          func(ctx context.Context, id string) (*ProcessorProduct, error)
	CreateProductFunc       func(ctx context.Context, name, description string) (*ProcessorProduct, error)
	CreatePriceFunc         func(ctx context.Context, p CreatePriceParams) (*ProcessorPrice, error)
	CreatePaymentIntentFunc func(ctx context.Context, p CreatePaymentIntentParams) (*ProcessorPaymentIntent, error)
	GetPaymentIntentFunc    func(ctx context.Context, id string) (*ProcessorPaymentIntent, error)
	CreateSetupIntentFunc   func(ctx context.Context, customerID string) (*ProcessorSetupIntent, error)
	CreateConnectFunc       func(ctx context.Context, p CreateConnectAccountParams) (*ProcessorConnectAccount, error)
}

func (m *mockProcessor) record(op string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, op)
	m.mu.Unlock()
}

func (m *mockProcessor) GetPaymentMethod(ctx context.Context, id string) (*ProcessorPaymentMethod, error) {
	m.record("GetPaymentMethod")
	if m.GetPaymentMethodFunc != nil {
		return m.GetPaymentMethodFunc(ctx, id)
	}
	return &ProcessorPaymentMethod{ID: id, CustomerID: "cus_1", CardBrand: "visa", CardLast4: "4242"}, nil
}

func (m *mockProcessor) AttachPaymentMethod(ctx context.Context, pmID, customerID string) error {
	m.record("AttachPaymentMethod")
	if m.AttachFunc != nil {
		return m.AttachFunc(ctx, pmID, customerID)
	}
	return nil
}

func (m *mockProcessor) DetachPaymentMethod(ctx context.Context, pmID string) error {
	m.record("DetachPaymentMethod")
	if m.DetachFunc != nil {
		return m.DetachFunc(ctx, pmID)
	}
	return nil
}

func (m *mockProcessor) ListPaymentMethods(ctx context.Context, customerID string) ([]ProcessorPaymentMethod, error) {
	m.record("ListPaymentMethods")
	if m.ListPaymentMethodsFunc != nil {
		return m.ListPaymentMethodsFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockProcessor) SetDefaultPaymentMethod(ctx context.Context, customerID, pmID string) error {
	m.record("SetDefaultPaymentMethod")
	if m.SetDefaultFunc != nil {
		return m.SetDefaultFunc(ctx, customerID, pmID)
	}
	return nil
}

func (m *mockProcessor) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*ProcessorCustomer, error) {
	m.record("CreateCustomer")
	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, email, name, metadata)
	}
	return &ProcessorCustomer{ID: "cus_new", Email: email, Name: name}, nil
}

func (m *mockProcessor) FindCustomerByEmail(ctx context.Context, email string) (*ProcessorCustomer, error) {
	m.record("FindCustomerByEmail")
	if m.FindCustomerFunc != nil {
		return m.FindCustomerFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockProcessor) CreateSubscription(ctx context.Context, p CreateSubscriptionParams) (*ProcessorSubscription, error) {
	m.record("CreateSubscription")
	if m.CreateSubscriptionFunc != nil {
		return m.CreateSubscriptionFunc(ctx, p)
	}
	return &ProcessorSubscription{ID: "sub_1", CustomerID: p.CustomerID, Status: "active", CurrentPeriodEnd: 1900000000, PriceID: p.PriceID}, nil
}

func (m *mockProcessor) CancelSubscriptionAtPeriodEnd(ctx context.Context, id string) (*ProcessorSubscription, error) {
	m.record("CancelSubscriptionAtPeriodEnd")
	if m.CancelSubscriptionFunc != nil {
		return m.CancelSubscriptionFunc(ctx, id)
	}
	return &ProcessorSubscription{ID: id, CustomerID: "cus_1", Status: "active", CurrentPeriodEnd: 1900000000, CancelAtPeriodEnd: true}, nil
}

func (m *mockProcessor) GetSubscription(ctx context.Context, id string) (*ProcessorSubscription, error) {
	m.record("GetSubscription")
	if m.GetSubscriptionFunc != nil {
		return m.GetSubscriptionFunc(ctx, id)
	}
	return &ProcessorSubscription{ID: id, CustomerID: "cus_1", Status: "active", CurrentPeriodEnd: 1900000000}, nil
}

func (m *mockProcessor) GetPrice(ctx context.Context, id string) (*ProcessorPrice, error) {
	m.record("GetPrice")
	if m.GetPriceFunc != nil {
		return m.GetPriceFunc(ctx, id)
	}
	return &ProcessorPrice{ID: id, ProductID: "prod_1", UnitAmount: 1499, Currency: "usd", Interval: "one_time"}, nil
}

func (m *mockProcessor) ListPrices(ctx context.Context, productID string) ([]ProcessorPrice, error) {
	m.record("ListPrices")
	if m.ListPricesFunc != nil {
		return m.ListPricesFunc(ctx, productID)
	}
	return nil, nil
}

func (m *mockProcessor) GetProduct(ctx context.Context, id string) (*ProcessorProduct, error) {
	m.record("GetProduct")
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return &ProcessorProduct{ID: id, Name: "Token Packages"}, nil
}

func (m *mockProcessor) CreateProduct(ctx context.Context, name, description string) (*ProcessorProduct, error) {
	m.record("CreateProduct")
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, name, description)
	}
	return &ProcessorProduct{ID: "prod_new", Name: name, Description: description}, nil
}

func (m *mockProcessor) CreatePrice(ctx context.Context, p CreatePriceParams) (*ProcessorPrice, error) {
	m.record("CreatePrice")
	if m.CreatePriceFunc != nil {
		return m.CreatePriceFunc(ctx, p)
	}
	return &ProcessorPrice{ID: "price_new", ProductID: p.ProductID, UnitAmount: p.UnitAmount, Currency: p.Currency}, nil
}

func (m *mockProcessor) CreatePaymentIntent(ctx context.Context, p CreatePaymentIntentParams) (*ProcessorPaymentIntent, error) {
	m.record("CreatePaymentIntent")
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, p)
	}
	return &ProcessorPaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret", Status: "requires_confirmation", Amount: p.Amount, Currency: p.Currency, Metadata: p.Metadata}, nil
}

func (m *mockProcessor) GetPaymentIntent(ctx context.Context, id string) (*ProcessorPaymentIntent, error) {
	m.record("GetPaymentIntent")
	if m.GetPaymentIntentFunc != nil {
		return m.GetPaymentIntentFunc(ctx, id)
	}
	return &ProcessorPaymentIntent{ID: id, Status: PaymentIntentStatusSucceeded, Amount: 1499, Currency: "usd"}, nil
}

func (m *mockProcessor) CreateSetupIntent(ctx context.Context, customerID string) (*ProcessorSetupIntent, error) {
	m.record("CreateSetupIntent")
	if m.CreateSetupIntentFunc != nil {
		return m.CreateSetupIntentFunc(ctx, customerID)
	}
	return &ProcessorSetupIntent{ID: "seti_1", ClientSecret: "seti_1_secret"}, nil
}

func (m *mockProcessor) CreateConnectAccount(ctx context.Context, p CreateConnectAccountParams) (*ProcessorConnectAccount, error) {
	m.record("CreateConnectAccount")
	if m.CreateConnectFunc != nil {
		return m.CreateConnectFunc(ctx, p)
	}
	return &ProcessorConnectAccount{ID: "acct_1"}, nil
}

// mockMethodRepo is an in-memory PaymentMethodRepository keyed by
// stripe_payment_method_id.
type mockMethodRepo struct {
	mu      sync.Mutex
	methods []models.PaymentMethod
	Calls   []string

	ListErr   error
	CreateErr error
}

func (m *mockMethodRepo) record(op string) {
	m.Calls = append(m.Calls, op)
}

// ListByUser returns active methods, defaults first, mirroring the store's
// tie-break ordering.
func (m *mockMethodRepo) ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListByUser")
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var out []models.PaymentMethod
	for _, pm := range m.methods {
		if pm.UserID == userID && pm.IsActive && pm.IsDefault {
			out = append(out, pm)
		}
	}
	for _, pm := range m.methods {
		if pm.UserID == userID && pm.IsActive && !pm.IsDefault {
			out = append(out, pm)
		}
	}
	return out, nil
}

func (m *mockMethodRepo) Create(ctx context.Context, params repositories.CreatePaymentMethodParams) (*models.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Create")
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	pm := models.PaymentMethod{
		ID:                    "local_" + params.StripePaymentMethodID,
		UserID:                params.UserID,
		StripeCustomerID:      params.StripeCustomerID,
		StripePaymentMethodID: params.StripePaymentMethodID,
		CardBrand:             params.CardBrand,
		CardLast4:             params.CardLast4,
		CardExpMonth:          params.CardExpMonth,
		CardExpYear:           params.CardExpYear,
		IsDefault:             params.IsDefault,
		IsActive:              true,
	}
	m.methods = append(m.methods, pm)
	return &pm, nil
}

func (m *mockMethodRepo) SetFlags(ctx context.Context, paymentMethodID, userID string, isDefault, isActive *bool) (*models.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetFlags")
	for i := range m.methods {
		if m.methods[i].StripePaymentMethodID == paymentMethodID && m.methods[i].UserID == userID {
			if isDefault != nil {
				m.methods[i].IsDefault = *isDefault
			}
			if isActive != nil {
				m.methods[i].IsActive = *isActive
			}
			pm := m.methods[i]
			return &pm, nil
		}
	}
	return nil, errs.New(errs.KindNotFound, "payment method %s not found", paymentMethodID)
}

func (m *mockMethodRepo) UnsetDefaults(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UnsetDefaults")
	for i := range m.methods {
		if m.methods[i].UserID == userID && m.methods[i].IsActive {
			m.methods[i].IsDefault = false
		}
	}
	return nil
}

func (m *mockMethodRepo) Delete(ctx context.Context, paymentMethodID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Delete")
	for i := range m.methods {
		if m.methods[i].StripePaymentMethodID == paymentMethodID && m.methods[i].UserID == userID {
			m.methods = append(m.methods[:i], m.methods[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockMethodRepo) MarkUsed(ctx context.Context, paymentMethodID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("MarkUsed")
	now := "2026-01-01T00:00:00Z"
	for i := range m.methods {
		if m.methods[i].StripePaymentMethodID == paymentMethodID && m.methods[i].UserID == userID {
			m.methods[i].LastUsedAt = &now
		}
	}
	return nil
}

func (m *mockMethodRepo) find(paymentMethodID string) *models.PaymentMethod {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.methods {
		if m.methods[i].StripePaymentMethodID == paymentMethodID {
			pm := m.methods[i]
			return &pm
		}
	}
	return nil
}

// mockProfileRepo holds one profile per user id.
type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	Calls    []string

	UpdateSubscriptionErr error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (m *mockProfileRepo) record(op string) {
	m.Calls = append(m.Calls, op)
}

func (m *mockProfileRepo) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetByID")
	p, ok := m.profiles[userID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "profile not found for user %s", userID)
	}
	copied := *p
	return &copied, nil
}

func (m *mockProfileRepo) Create(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Create")
	p := &models.Profile{ID: userID, Username: update.Username, FullName: update.FullName}
	m.profiles[userID] = p
	copied := *p
	return &copied, nil
}

func (m *mockProfileRepo) Update(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Update")
	p, ok := m.profiles[userID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "profile not found for user %s", userID)
	}
	if update.Username != nil {
		p.Username = update.Username
	}
	if update.FullName != nil {
		p.FullName = update.FullName
	}
	copied := *p
	return &copied, nil
}

func (m *mockProfileRepo) SetCustomerID(ctx context.Context, userID, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetCustomerID")
	p, ok := m.profiles[userID]
	if !ok {
		return errs.New(errs.KindNotFound, "profile not found for user %s", userID)
	}
	p.StripeCustomerID = &customerID
	return nil
}

func (m *mockProfileRepo) UpdateSubscription(ctx context.Context, userID string, mirror models.SubscriptionMirror) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateSubscription")
	if m.UpdateSubscriptionErr != nil {
		return m.UpdateSubscriptionErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return errs.New(errs.KindNotFound, "profile not found for user %s", userID)
	}
	p.StripeCustomerID = &mirror.StripeCustomerID
	p.SubscriptionID = &mirror.SubscriptionID
	p.SubscriptionStatus = &mirror.SubscriptionStatus
	p.SubscriptionPeriodEnd = &mirror.SubscriptionPeriodEnd
	return nil
}

func (m *mockProfileRepo) MarkContractor(ctx context.Context, profileID, contractorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("MarkContractor")
	return nil
}

func (m *mockProfileRepo) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("IsUsernameAvailable")
	for _, p := range m.profiles {
		if p.Username != nil && *p.Username == username {
			return false, nil
		}
	}
	return true, nil
}

// mockPurchaseRepo stores purchases keyed by payment intent id.
type mockPurchaseRepo struct {
	mu        sync.Mutex
	purchases map[string]*models.Purchase
	Calls     []string
}

func newMockPurchaseRepo() *mockPurchaseRepo {
	return &mockPurchaseRepo{purchases: make(map[string]*models.Purchase)}
}

func (m *mockPurchaseRepo) Create(ctx context.Context, params repositories.CreatePurchaseParams) (*models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "Create")

	tokens := params.TokensPurchased
	product := params.StripeProductID
	pkg := params.PackageID
	completed := params.CompletedAt
	p := &models.Purchase{
		ID:                    "pur_" + params.StripePaymentIntentID,
		UserID:                params.UserID,
		StripePaymentIntentID: params.StripePaymentIntentID,
		StripePriceID:         params.StripePriceID,
		StripeProductID:       &product,
		PackageID:             &pkg,
		PackagePriceID:        params.PackagePriceID,
		AmountPaid:            params.AmountPaid,
		Currency:              params.Currency,
		TokensPurchased:       &tokens,
		Status:                params.Status,
		CompletedAt:           &completed,
	}
	m.purchases[params.StripePaymentIntentID] = p
	copied := *p
	return &copied, nil
}

func (m *mockPurchaseRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "GetByPaymentIntentID")
	p, ok := m.purchases[paymentIntentID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "no purchase recorded for payment intent %s", paymentIntentID)
	}
	copied := *p
	return &copied, nil
}

func (m *mockPurchaseRepo) ListCompletedByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "ListCompletedByUser")
	var out []models.Purchase
	for _, p := range m.purchases {
		if p.UserID == userID && p.Status == models.PurchaseStatusCompleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

// mockCatalogRepo holds packages by product id and prices by price id.
type mockCatalogRepo struct {
	mu       sync.Mutex
	packages map[string]*models.Package
	prices   map[string]*models.PackagePrice
	plans    []models.SubscriptionPlan
	planPxs  []models.SubscriptionPrice
	Calls    []string

	UpsertPriceErr error
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		packages: make(map[string]*models.Package),
		prices:   make(map[string]*models.PackagePrice),
	}
}

func (m *mockCatalogRepo) GetPackageByProductID(ctx context.Context, productID string) (*models.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "GetPackageByProductID")
	p, ok := m.packages[productID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "no package for product %s", productID)
	}
	copied := *p
	return &copied, nil
}

func (m *mockCatalogRepo) CreatePackage(ctx context.Context, params repositories.CreatePackageParams) (*models.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "CreatePackage")
	desc := params.Description
	p := &models.Package{
		ID:              "pkg_" + params.StripeProductID,
		Name:            params.Name,
		Description:     &desc,
		StripeProductID: params.StripeProductID,
		IsActive:        true,
	}
	m.packages[params.StripeProductID] = p
	copied := *p
	return &copied, nil
}

func (m *mockCatalogRepo) GetPackagePriceByPriceID(ctx context.Context, priceID string) (*models.PackagePrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "GetPackagePriceByPriceID")
	p, ok := m.prices[priceID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "no package price for price %s", priceID)
	}
	copied := *p
	return &copied, nil
}

func (m *mockCatalogRepo) UpsertPackagePrice(ctx context.Context, params repositories.UpsertPackagePriceParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "UpsertPackagePrice")
	if m.UpsertPriceErr != nil {
		return m.UpsertPriceErr
	}
	m.prices[params.StripePriceID] = &models.PackagePrice{
		ID:            "pp_" + params.StripePriceID,
		PackageID:     params.PackageID,
		StripePriceID: params.StripePriceID,
		AmountCents:   params.AmountCents,
		Currency:      params.Currency,
		IntervalType:  params.IntervalType,
		IntervalCount: params.IntervalCount,
		IsActive:      params.IsActive,
	}
	return nil
}

func (m *mockCatalogRepo) ListActivePackages(ctx context.Context) ([]models.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Package
	for _, p := range m.packages {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) ListActivePackagePrices(ctx context.Context) ([]models.PackagePrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PackagePrice
	for _, p := range m.prices {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	return m.plans, nil
}

func (m *mockCatalogRepo) ListActivePlanPrices(ctx context.Context) ([]models.SubscriptionPrice, error) {
	return m.planPxs, nil
}

// mockContractorRepo keeps contractors and saved forms by user id.
type mockContractorRepo struct {
	mu          sync.Mutex
	contractors map[string]*models.Contractor
	forms       map[string]models.ContractorKYCForm
	addresses   []repositories.CreateContractorAddressParams

	AddressErr error
}

func newMockContractorRepo() *mockContractorRepo {
	return &mockContractorRepo{
		contractors: make(map[string]*models.Contractor),
		forms:       make(map[string]models.ContractorKYCForm),
	}
}

func (m *mockContractorRepo) Create(ctx context.Context, params repositories.CreateContractorParams) (*models.Contractor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	accountID := params.StripeConnectAccountID
	c := &models.Contractor{
		ID:                     "con_" + params.UserID,
		UserID:                 params.UserID,
		ProfileID:              params.ProfileID,
		ContractorType:         params.ContractorType,
		KYCStatus:              params.KYCStatus,
		IsActive:               true,
		StripeConnectAccountID: &accountID,
		BusinessName:           params.BusinessName,
	}
	m.contractors[params.UserID] = c
	copied := *c
	return &copied, nil
}

func (m *mockContractorRepo) GetByUserID(ctx context.Context, userID string) (*models.Contractor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contractors[userID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "no contractor record for user %s", userID)
	}
	copied := *c
	return &copied, nil
}

func (m *mockContractorRepo) CreateAddress(ctx context.Context, params repositories.CreateContractorAddressParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddressErr != nil {
		return m.AddressErr
	}
	m.addresses = append(m.addresses, params)
	return nil
}

func (m *mockContractorRepo) SaveKYCForm(ctx context.Context, userID string, form models.ContractorKYCForm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forms[userID] = form
	return nil
}

func (m *mockContractorRepo) LoadKYCForm(ctx context.Context, userID string) (*models.ContractorKYCForm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	form, ok := m.forms[userID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "no saved contractor form for user %s", userID)
	}
	return &form, nil
}
