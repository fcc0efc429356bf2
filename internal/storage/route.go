package storage

import (
	"bytes"
	"encoding/json"
)

type Route struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"routeName" json:"routeName"`
	Description *string `db:"description" json:"description"`
	IsMainRoute bool    `db:"isMainRoute" json:"isMainRoute"`
	Audit
	ProcessSequence []RouteProcess `db:"-" json:"processSequence"`
}

type RouteProcess struct {
	ID           int64 `db:"id" json:"id"`
	RouteID      int64 `db:"routeId" json:"routeId"`
	ProcessID    int64 `db:"processId" json:"processId"`
	ProcessOrder int   `db:"processOrder" json:"processOrder"`
	IsActive     bool  `db:"isActive" json:"isActive"`
}

// RouteProcessInput is a sequence entry. It is either a bare process id or
// an object; a zero ProcessOrder means "position in the list".
type RouteProcessInput struct {
	ProcessID    int64 `json:"processId" validate:"required"`
	ProcessOrder int   `json:"processOrder" validate:"gte=0"`
}

func (in *RouteProcessInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '{' {
		return json.Unmarshal(b, &in.ProcessID)
	}

	type plain RouteProcessInput
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*in = RouteProcessInput(p)
	return nil
}

type RouteInput struct {
	Name            string              `json:"routeName" validate:"required"`
	Description     *string             `json:"description"`
	IsMainRoute     *bool               `json:"isMainRoute"`
	ProcessSequence []RouteProcessInput `json:"processSequence" validate:"dive"`
}

type RoutePatch struct {
	ID          int64            `json:"id" validate:"required"`
	Name        Optional[string] `json:"routeName"`
	Description Optional[string] `json:"description"`
	IsMainRoute Optional[bool]   `json:"isMainRoute"`
}
