package storage

type Product struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"productName" json:"productName"`
	Description *string `db:"description" json:"description"`
	MainRouteID int64   `db:"mainRouteId" json:"mainRouteId"`
	Audit
}

type ProductInput struct {
	Name        string  `json:"productName" validate:"required"`
	Description *string `json:"description"`
	MainRouteID int64   `json:"mainRouteId" validate:"required"`
}

type ProductPatch struct {
	ID          int64            `json:"id" validate:"required"`
	Name        Optional[string] `json:"productName"`
	Description Optional[string] `json:"description"`
	MainRouteID Optional[int64]  `json:"mainRouteId"`
}
