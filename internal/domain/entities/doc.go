// Package entities defines core domain models and data structures.
package entities
