package domain

import "go.mongodb.org/mongo-driver/v2/bson"

// ValidID reports whether id is a 24-character hex object id.
func ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

// RequireID returns a validation error naming what for malformed ids.
func RequireID(id, what string) error {
	if !ValidID(id) {
		return Validation("Invalid " + what + " ID")
	}
	return nil
}
