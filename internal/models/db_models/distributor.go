package db_models

type DistributorStatus string

const (
	DistributorActive    DistributorStatus = "active"
	DistributorInactive  DistributorStatus = "inactive"
	DistributorSuspended DistributorStatus = "suspended"
)

// Distributor carries only what the compensation engines read: account
// status gates commission eligibility, RankCode is the stored current rank
// (empty while unranked). Profile, auth and storefront data live elsewhere.
type Distributor struct {
	BaseModel
	Name     string
	Email    string            `gorm:"uniqueIndex"`
	Status   DistributorStatus `gorm:"type:distributor_status;index;default:'active'"`
	RankCode string            `gorm:"index;default:''"`
}

func (d *Distributor) IsActive() bool {
	return d.Status == DistributorActive
}
