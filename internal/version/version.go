// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Orbit controls, Prometheus frame metrics, headless frame dumps
// 0.2.0 - Cloud and glow shells, ACES tone mapping, background texture loading
// 0.1.0 - Initial release: software-rendered planet and starfield in the terminal
