package enums

type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Column is the matches table column holding this side's response.
func (s Side) Column() string {
	if s == SideA {
		return "response_a"
	}
	return "response_b"
}
