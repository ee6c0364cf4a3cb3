package mapper

import "github.com/pgvector/pgvector-go"

// vectorToSlice converts a nullable pgvector column to the entity's plain
// float slice. nil stays nil so "no embedding" survives the round trip.
func vectorToSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}

func sliceToVector(s []float32) *pgvector.Vector {
	if s == nil {
		return nil
	}
	v := pgvector.NewVector(s)
	return &v
}
