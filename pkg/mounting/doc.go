// Package mounting turns shadow trees into host view operations.
//
// A ShadowTree publishes numbered, sealed revisions of one surface. Each
// commit runs a CommitTransaction against the current root, lays the
// result out and publishes it with a compare-and-swap, then pushes it to
// the tree's MountingCoordinator. The host pulls MountingTransactions from
// the coordinator on its own thread; each transaction carries the
// Mutations the Differ computed between the last pulled revision and the
// newest one.
//
// Only nodes with core.TraitFormsView become host views. Others are
// flattened away: their view-forming descendants are mounted in the
// nearest view-forming ancestor with frames translated accordingly.
package mounting
