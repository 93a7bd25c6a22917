// Command dryadctl parses, dumps, evaluates and measures programs of the
// dryad example expression language.
package main

func main() {
	execute()
}
