package utils

import "go.mongodb.org/mongo-driver/v2/bson"

// NewID returns a fresh 24-hex object id usable by every store backend.
func NewID() string { return bson.NewObjectID().Hex() }
