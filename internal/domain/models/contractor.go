package models

// Contractor is a payout-eligible user with a processor Connect account.
type Contractor struct {
	ID                                   string  `json:"id"`
	UserID                               string  `json:"user_id"`
	ProfileID                            string  `json:"profile_id"`
	ContractorType                       string  `json:"contractor_type"`
	KYCStatus                            string  `json:"kyc_status"`
	IsActive                             bool    `json:"is_active"`
	StripeConnectAccountID               *string `json:"stripe_connect_account_id,omitempty"`
	StripeConnectAccountStatus           *string `json:"stripe_connect_account_status,omitempty"`
	StripeConnectRequirementsCompleted   *bool   `json:"stripe_connect_requirements_completed,omitempty"`

	BusinessName              *string `json:"business_name,omitempty"`
	BusinessTaxID             *string `json:"business_tax_id,omitempty"`
	BusinessWebsiteURL        *string `json:"business_website_url,omitempty"`
	BusinessDescription       *string `json:"business_description,omitempty"`
	IndustryMCCCode           *string `json:"industry_mcc_code,omitempty"`
	CompanyRegistrationNumber *string `json:"company_registration_number,omitempty"`
	CompanyStructure          *string `json:"company_structure,omitempty"`

	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	PhoneNumber      *string `json:"phone_number,omitempty"`
	NationalIDNumber *string `json:"national_id_number,omitempty"`
	NationalIDType   *string `json:"national_id_type,omitempty"`

	CreatedAt *string `json:"created_at,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

// ContractorKYCForm is the auto-saved onboarding form. The frontend sends
// camelCase keys; stored rows use the same shape.
type ContractorKYCForm struct {
	ContractorType string `json:"contractorType" validate:"required,oneof=individual business"`
	Email          string `json:"email" validate:"required,email"`

	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	DateOfBirth      *string `json:"dateOfBirth,omitempty"`
	NationalIDNumber *string `json:"nationalIdNumber,omitempty"`
	NationalIDType   *string `json:"nationalIdType,omitempty"`

	BusinessName              *string `json:"businessName,omitempty"`
	BusinessTaxID             *string `json:"businessTaxId,omitempty"`
	BusinessURL               *string `json:"businessUrl,omitempty" validate:"omitempty,url"`
	BusinessDescription       *string `json:"businessDescription,omitempty"`
	IndustryMCCCode           *string `json:"industryMccCode,omitempty"`
	CompanyRegistrationNumber *string `json:"companyRegistrationNumber,omitempty"`
	CompanyStructure          *string `json:"companyStructure,omitempty"`

	Address     *ContractorAddress     `json:"address,omitempty"`
	BankAccount *ContractorBankAccount `json:"bankAccount,omitempty"`
}

type ContractorAddress struct {
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	PostalCode string  `json:"postalCode" validate:"required"`
	Country    string  `json:"country" validate:"required,iso3166_1_alpha2"`
}

type ContractorBankAccount struct {
	AccountHolderName string `json:"accountHolderName" validate:"required"`
	AccountNumber     string `json:"accountNumber" validate:"required"`
	RoutingNumber     string `json:"routingNumber" validate:"required"`
	BankName          string `json:"bankName" validate:"required"`
	AccountType       string `json:"accountType" validate:"required,oneof=checking savings"`
}
