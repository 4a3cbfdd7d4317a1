// Command proofcheck imports user-submitted proof-of-completion rows and
// verifies them against their external references.
package main
