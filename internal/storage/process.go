package storage

type Process struct {
	ID            int64   `db:"id" json:"id"`
	Name          string  `db:"processName" json:"processName"`
	Description   *string `db:"description" json:"description"`
	WorkstationID int64   `db:"workstationId" json:"workstationId"`
	ProcessTime   float64 `db:"processTime" json:"processTime"`
	SetupTime     float64 `db:"setupTime" json:"setupTime"`
	Audit
	TechnicalValues []ProcessTechnical `db:"-" json:"technicalValues"`
}

type ProcessTechnical struct {
	ID        int64   `db:"id" json:"id"`
	ProcessID int64   `db:"processId" json:"processId"`
	UnitID    *int64  `db:"unitId" json:"unitId"`
	Name      string  `db:"name" json:"name"`
	Value     *string `db:"value" json:"value"`
	Audit
}

// TechnicalValueInput takes the value as either a JSON number or a string.
type TechnicalValueInput struct {
	Name   string      `json:"name" validate:"required"`
	Value  *FlexString `json:"value"`
	UnitID *int64      `json:"unitId"`
}

type ProcessInput struct {
	Name            string                `json:"processName" validate:"required"`
	Description     *string               `json:"description"`
	WorkstationID   int64                 `json:"workstationId" validate:"required"`
	ProcessTime     *float64              `json:"processTime" validate:"required,gte=0"`
	SetupTime       *float64              `json:"setupTime" validate:"required,gte=0"`
	TechnicalValues []TechnicalValueInput `json:"technicalValues" validate:"dive"`
}

type ProcessPatch struct {
	ID            int64             `json:"id" validate:"required"`
	Name          Optional[string]  `json:"processName"`
	Description   Optional[string]  `json:"description"`
	WorkstationID Optional[int64]   `json:"workstationId"`
	ProcessTime   Optional[float64] `json:"processTime"`
	SetupTime     Optional[float64] `json:"setupTime"`
}
