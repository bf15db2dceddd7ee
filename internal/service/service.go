// Package service implements the application core: the access gate (account
// registration and login), the tenancy registry (companies) and the creative
// lifecycle engine. Handlers stay thin; every business rule lives here, on
// top of the store contracts.
package service

import "time"

// Clock abstracts time so tests can drive comment ids and timestamps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock is the production clock.
var SystemClock Clock = realClock{}
