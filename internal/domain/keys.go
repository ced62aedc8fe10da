package domain

// KeyPrefix namespaces every Redis key written by this service.
const KeyPrefix = "simdex:"
