package characters

import "time"

//go:generate mockgen -destination=mocks/mock_time_provider.go -package=mockcharacters -source=time_provider.go

// TimeProvider stamps CreatedAt/UpdatedAt
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider returns the wall clock in UTC
type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
