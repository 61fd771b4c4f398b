// Command regfcat is a read-only demonstrator for the regf core: it
// opens a hive file and lets you inspect its keys, values, and
// structural health from the command line. It has no edit, merge, or
// export subcommands — those are external collaborators per spec §1.
package main

func main() {
	execute()
}
