package storage

type Workstation struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"workstationName" json:"workstationName"`
	Description *string `db:"description" json:"description"`
	Audit
	Shifts []WorkstationShift `db:"-" json:"shifts"`
}

// WorkstationShift is one shift assignment joined with the shift name.
type WorkstationShift struct {
	ID        int64  `db:"shiftAssignmentId" json:"shiftAssignmentId"`
	ShiftID   int64  `db:"shiftId" json:"shiftId"`
	ShiftName string `db:"shiftName" json:"shiftName"`
	StartDate string `db:"startDate" json:"startDate"`
	EndDate   string `db:"endDate" json:"endDate"`
}

type ShiftAssignmentInput struct {
	ShiftID   int64  `json:"shiftId" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type WorkstationInput struct {
	Name        string                 `json:"workstationName" validate:"required"`
	Description *string                `json:"description"`
	Shifts      []ShiftAssignmentInput `json:"shifts" validate:"dive"`
}

type WorkstationPatch struct {
	ID          int64            `json:"id" validate:"required"`
	Name        Optional[string] `json:"workstationName"`
	Description Optional[string] `json:"description"`
}
