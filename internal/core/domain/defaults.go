package domain

// Defaults holds tool-level settings read from the optional defaults file.
// Nil fields were not present in the file and leave the built-in or
// flag-provided value untouched.
type Defaults struct {
	Jobs      *int
	File      *string
	IgnoreEnv *bool
}
