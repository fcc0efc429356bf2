package storage

type Unit struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"unitName" json:"unitName"`
	Symbol      string  `db:"unitSymbol" json:"unitSymbol"`
	Description *string `db:"description" json:"description"`
	Audit
}

type UnitInput struct {
	Name        string  `json:"unitName" validate:"required"`
	Symbol      string  `json:"unitSymbol" validate:"required"`
	Description *string `json:"description"`
}

type UnitPatch struct {
	ID          int64            `json:"id" validate:"required"`
	Name        Optional[string] `json:"unitName"`
	Symbol      Optional[string] `json:"unitSymbol"`
	Description Optional[string] `json:"description"`
}
