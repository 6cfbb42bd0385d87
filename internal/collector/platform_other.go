//go:build !darwin

package collector

var platformSupported = false
