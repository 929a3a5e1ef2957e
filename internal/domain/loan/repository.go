package loan

import "context"

type Repository interface {
	Create(ctx context.Context, a *Application) error
	Save(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id uint64) (*Application, error)
	// GetDetail loads the application with details, collateral and attachments.
	GetDetail(ctx context.Context, id uint64) (*Application, error)

	CreatePersonal(ctx context.Context, d *PersonalDetails) error
	SavePersonal(ctx context.Context, d *PersonalDetails) error
	CreateBusiness(ctx context.Context, d *BusinessDetails) error
	SaveBusiness(ctx context.Context, d *BusinessDetails) error
	CreateCollateral(ctx context.Context, c *CollateralItem) error
	CreateAttachment(ctx context.Context, at *Attachment) error

	UpdateDecision(ctx context.Context, id uint64, d Decision) error
	// Delete removes the application and every dependent row.
	Delete(ctx context.Context, id uint64) error

	List(ctx context.Context, f Filter) ([]Summary, error)
	Stats(ctx context.Context, userID uint64) (Stats, error)
}
