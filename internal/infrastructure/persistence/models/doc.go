// Package models contains GORM persistence models for aggregates whose
// domain shape does not map directly onto columns. Aggregates with plain
// fields carry their own GORM tags and are stored without a model.
package models
