// Package location holds the transient tracking values: partner position
// samples and the arrival estimates derived from them. Neither is persisted
// beyond the partner's last known position.
package location
