package repository

// Factory produces the repository set backed by one storage engine.
type Factory interface {
	Affiliates() AffiliateRepository
	Orders() OrderRepository
	Credentials() CredentialRepository
}
