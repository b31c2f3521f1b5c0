// Package core is the application runtime: a Model owns state, Update
// folds messages into it and returns commands, View renders it. A Program
// runs the loop that ties terminal input, commands, subscriptions and the
// renderer together.
//
// Update and View run on the Program's loop goroutine only. Commands and
// subscriptions run elsewhere and report back through messages.
package core
