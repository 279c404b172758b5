package domain

import "fmt"

type BackendKind string

const (
	BackendKindREST     BackendKind = "rest"
	BackendKindPostgres BackendKind = "postgres"
)

// BackendProfile holds the credentials of one backend entry of the profiles file.
type BackendProfile struct {
	Name   string
	Kind   BackendKind
	URL    string
	APIKey string
	DSN    string
}

func (c BackendProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Kind, c.Name)
}
