// Package billing holds the financial rules of the job-order book.
//
// It turns raw line items and payment input into the derived figures that the
// rest of the system displays:
//   - Subtotal: the sum of quantity x unit amount over a record's line items
//   - CalculateTotals: discount (flat or percent) then tax on the discounted base
//   - ComputeBalance / DeriveStatus: outstanding balance and the derived order status
//
// Key Aggregates:
//   - MonetaryRecord: a job order (per-item payment status) or an invoice
//     (single order-level payment status)
//   - Expense: an itemised expense in one of the fixed categories
//
// Every read path that shows a total or a balance goes through these functions;
// nothing else in the code base re-derives them.
package billing
