// Package jobsearch holds repositories for the user-entered tracker rows:
// companies, contacts, applications and outreach.
package jobsearch
