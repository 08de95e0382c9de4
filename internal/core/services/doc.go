// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services hold no transport details: every backend call goes through
// driven.Backend and keeps its three outcomes intact.
package services
