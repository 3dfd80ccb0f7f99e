package goGate

import "context"

type deviceIDContextKey struct{}
type appVersionContextKey struct{}

// WithDeviceID attaches the device identifier to ctx. The Gate includes it in
// audit event metadata so sessions can be correlated across devices.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDContextKey{}, deviceID)
}

// WithAppVersion attaches the app build version to ctx for audit metadata.
func WithAppVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, appVersionContextKey{}, version)
}

func deviceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	deviceID, _ := ctx.Value(deviceIDContextKey{}).(string)
	return deviceID
}

func appVersionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	version, _ := ctx.Value(appVersionContextKey{}).(string)
	return version
}
