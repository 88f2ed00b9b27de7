package user

// User is the identity record returned by the backend. The backend keys
// identities by a Mongo-style "_id" field.
type User struct {
	ID         string `json:"_id"`
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
}
