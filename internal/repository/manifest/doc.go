// Package manifest persists the record of a packing run: which libraries
// were copied, the install name each copy received and how each reference
// was rewritten. The verify command reads it back to check the output.
package manifest
