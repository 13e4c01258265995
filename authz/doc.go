// Package authz implements role-based permission checks over a fixed
// catalog built at startup.
//
// A Catalog assigns each permission a bit in a 64-bit mask and each role a
// mask of granted permissions. After Freeze the catalog is immutable and
// every check is a lock-free mask test. Unknown roles and unknown
// permissions always deny.
package authz
