package toolchain

// NewResolverWith exports the private constructor for testing purposes.
var NewResolverWith = newResolverWith

// HostTriple exports the private host triple mapping for testing purposes.
var HostTriple = hostTriple
