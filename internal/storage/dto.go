package storage

const minObjectNameLength = 5

type GetURLDTO struct {
	ObjectName string `json:"object_name"`
}

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func (d GetURLDTO) Validate() error {
	if len(d.ObjectName) < minObjectNameLength {
		return ValidationError{Msg: "object_name must be at least 5 characters"}
	}
	return nil
}
