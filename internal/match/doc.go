// Package match decides whether a fetched page supports the claim a
// submission makes.
//
// A claim is checked in two stages. Before any network traffic, the
// reference URL itself must belong to an allowed host and carry the path
// shape of the claimed resource. After the fetch, the page content must
// yield the expected marker: the owner name on a profile page, the course
// title on a badge page. Title comparison is deliberately forgiving about
// casing, punctuation, and word order, since badge platforms decorate
// titles with suffixes the submitter never typed.
package match
