// Package models defines the core domain models for Splitshare.
//
// # Models
//
//   - User: Registered account identified by a unique email address
//   - Expense: A shared expense with a payer, a total amount, and a split strategy
//   - Split: One participant's share of an expense
//   - ExpenseWithSplits: Read model joining an expense with its splits and user emails
//
// # Design Principles
//
//  1. **Exact money**: All monetary amounts and percentages use
//     shopspring/decimal. Binary floating point never touches money.
//  2. **Immutable expenses**: An expense and its splits are created together
//     in one transaction and never mutated afterward; balances are recomputed
//     from them on every read.
//  3. **Avoid circular references**: Relationships use ID strings instead of
//     pointers.
//  4. **Email as the public identifier**: Callers address users by email; the
//     UUID primary keys stay internal to storage.
package models
