// Package wallet models balances held by the platform on behalf of restaurants, drivers
// and itself, together with the transaction log and the escrow ledger.
//
// The single system wallet (owner type admin, no owner id) holds the escrow balance of
// captured but unsettled orders and accumulates platform fees. Every change of the escrow
// balance is mirrored by exactly one LedgerEntry so that conservation can be verified per
// order by summing entries.
package wallet
