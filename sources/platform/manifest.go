package platform

import "time"

type manifest struct {
	version   string
	buildTime string
	startTime time.Time
}

var app = manifest{version: "0.0.0", buildTime: "1970-01-01", startTime: time.Now()}

// SetAppManifest records the build stamp injected at link time and the
// process start.
func SetAppManifest(version, buildTime string, startTime time.Time) {
	app = manifest{version: version, buildTime: buildTime, startTime: startTime}
}

func GetAppVersion() string {
	return app.version
}

func GetAppBuildTime() string {
	return app.buildTime
}

// GetAppUptime is the time since start, whole seconds.
func GetAppUptime() time.Duration {
	return time.Since(app.startTime).Truncate(time.Second)
}
