package domain

// Identity is the verified caller of a router turn. It is produced by the
// identity service and is never read from classifier output.
type Identity struct {
	SubjectID string `json:"subject_id"`
	Role      Role   `json:"role"`
	Token     string `json:"-"`
}

// IdentityFields are argument names that carry identity. They are stripped
// from every proposal and never stored in a draft.
var IdentityFields = []string{"token", "emp_id", "customer_id", "user", "user_id", "subject_id", "role"}

// IsIdentityField reports whether name is an identity-carrying argument.
func IsIdentityField(name string) bool {
	for _, f := range IdentityFields {
		if f == name {
			return true
		}
	}
	return false
}
