// Package widgets contains components that satisfy core.Model, plus the
// stateless drawing helpers they share (stacks, boxes, popup overlay).
//
// Components own their own state and key handling. Composite applications
// embed them and forward HandleEvent and Update.
package widgets
