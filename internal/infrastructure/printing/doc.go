// Package printing renders order receipts. An html/template document is
// filled from the order and converted to PDF by a headless Chrome driven
// over the DevTools protocol (chromedp).
//
// Example usage:
//
//	pdf, err := NewChromedpRenderer(cfg.Receipt, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pdf.Close()
//
//	receipts := NewReceiptRenderer(pdf, cfg.Receipt.CurrencySymbol, logger)
//	orderService := trade.NewOrderService(orderRepo, itemRepo, userRepo, logger,
//	    trade.WithReceiptRenderer(receipts))
package printing
