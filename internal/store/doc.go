// Package store defines the persistence contracts: the generic Repository
// and its query options, the Wrapper grouping one repository per table,
// the table descriptors shared by every backend, the UserStore, and the
// sentinel errors backends report.
package store
