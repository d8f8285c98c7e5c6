// Command devagenda runs the DevAgenda API server and offers maintenance
// commands (migrations, reports, syncs) against the same database.
package main

func main() {
	Execute()
}
