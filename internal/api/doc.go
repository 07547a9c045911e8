// Package api provides HTTP handlers for the drill API: practice turns,
// answer submission, and the review/family read models.
package api
