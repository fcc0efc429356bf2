package storage

type Shift struct {
	ID        int64    `db:"id" json:"id"`
	Name      string   `db:"name" json:"name"`
	StartTime string   `db:"startTime" json:"startTime"`
	EndTime   string   `db:"endTime" json:"endTime"`
	Duration  *float64 `db:"duration" json:"duration"`
	ColorCode *string  `db:"colorCode" json:"colorCode"`
	Audit
}

type ShiftInput struct {
	Name      string   `json:"name" validate:"required"`
	StartTime string   `json:"startTime" validate:"required"`
	EndTime   string   `json:"endTime" validate:"required"`
	Duration  *float64 `json:"duration"`
	ColorCode *string  `json:"colorCode"`
}

type ShiftPatch struct {
	ID        int64             `json:"id" validate:"required"`
	Name      Optional[string]  `json:"name"`
	StartTime Optional[string]  `json:"startTime"`
	EndTime   Optional[string]  `json:"endTime"`
	Duration  Optional[float64] `json:"duration"`
	ColorCode Optional[string]  `json:"colorCode"`
}
