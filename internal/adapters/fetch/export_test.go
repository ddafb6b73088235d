package fetch

// NewFetcherWith exports the private constructor for testing purposes.
var NewFetcherWith = newFetcherWith
