package model

// Status is the code answered for every verb. Zero is success; failures are
// negative and follow errno numbering.
type Status int

const (
	StatusOK            Status = 0
	StatusNotMember     Status = -1  // EPERM
	StatusNotFound      Status = -2  // ENOENT
	StatusNoCapacity    Status = -12 // ENOMEM
	StatusAlreadyMember Status = -17 // EEXIST
	StatusInvalid       Status = -22 // EINVAL
	StatusUnknownVerb   Status = -25 // ENOTTY
)

var statusNames = map[Status]string{
	StatusOK:            "OK",
	StatusNotMember:     "NOT_MEMBER",
	StatusNotFound:      "NOT_FOUND",
	StatusNoCapacity:    "NO_CAPACITY",
	StatusAlreadyMember: "ALREADY_MEMBER",
	StatusInvalid:       "INVALID",
	StatusUnknownVerb:   "UNKNOWN_VERB",
}

// String returns the symbolic name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// OK reports whether the verb succeeded.
func (s Status) OK() bool {
	return s == StatusOK
}
