//go:build darwin

package collector

var platformSupported = true
