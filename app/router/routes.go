package router

import "storefront/routing"

// Pages of the storefront route table
const (
	PageHome                routing.PageRef = "Home"
	PageCart                routing.PageRef = "Cart"
	PageCategory            routing.PageRef = "Category"
	PageCheckout            routing.PageRef = "Checkout"
	PageProductDetail       routing.PageRef = "ProductDetail"
	PageOrderReview         routing.PageRef = "OrderReview"
	PageProfile             routing.PageRef = "Profile"
	PageOrderHistory        routing.PageRef = "OrderHistory"
	PagePurchaseReceipt     routing.PageRef = "PurchaseReceipt"
	PageRegistration        routing.PageRef = "Registration"
	PageCheckoutAuth        routing.PageRef = "CheckoutAuth"
	PageAboutUs             routing.PageRef = "AboutUs"
	PageMaintenance         routing.PageRef = "Maintenance"
	PageContactUs           routing.PageRef = "ContactUs"
	PageTermsAndConditions  routing.PageRef = "TermsAndConditions"
	PagePrivacyPolicies     routing.PageRef = "PrivacyPolicies"
	PageCompany             routing.PageRef = "Company"
	PageIndustries          routing.PageRef = "Industries"
	PageServices            routing.PageRef = "Services"
	PageSupport             routing.PageRef = "Support"
	PageWishLists           routing.PageRef = "WishLists"
	PageShippingReturns     routing.PageRef = "ShippingReturns"
	PageProductsCompare     routing.PageRef = "ProductsCompare"
	PageWriteReview         routing.PageRef = "WriteReview"
	PageChangePassword      routing.PageRef = "ChangePassword"
	PageResetPassword       routing.PageRef = "ResetPassword"
	PageAddPaymentMethod    routing.PageRef = "AddPaymentMethod"
	PageAccountMain         routing.PageRef = "AccountMain"
	PageRequisitionPageMain routing.PageRef = "RequisitionPageMain"
	PageB2BMain             routing.PageRef = "B2BMain"
	PageAccounts            routing.PageRef = "Accounts"
	PageRequisitionList     routing.PageRef = "RequisitionList"
)

// StorefrontRoutes returns the route table. Order matters: the first
// matching descriptor of a level wins.
func StorefrontRoutes() []routing.RouteDescriptor {
	return []routing.RouteDescriptor{
		{Path: "/", Exact: true, Page: PageHome},
		{Path: "/mycart", Page: PageCart},
		{Path: "/category", Exact: true, Page: PageCategory},
		{Path: "/category/:id", Exact: true, Page: PageCategory},
		{Path: "/category/:id/*", Exact: true, Page: PageCategory},
		{Path: "/checkout/:cart?", Page: PageCheckout},
		{Path: "/itemdetail", Exact: true, Page: PageProductDetail},
		{Path: "/itemdetail/:url", Page: PageProductDetail},
		{Path: "/order/:cart?", Page: PageOrderReview},
		{Path: "/profile", Page: PageProfile},
		{Path: "/orderDetails/:url", Page: PageOrderHistory},
		{Path: "/purchaseReceipt", Page: PagePurchaseReceipt},
		{Path: "/registration", Page: PageRegistration},
		{Path: "/signIn", Page: PageCheckoutAuth},
		{Path: "/search", Exact: true, Page: PageCategory},
		{Path: "/search/:keywords", Exact: true, Page: PageCategory},
		{Path: "/search/:keywords/*", Exact: true, Page: PageCategory},
		{Path: "/aboutus", Page: PageAboutUs},
		{Path: "/maintenance", Page: PageMaintenance},
		{Path: "/contactus", Page: PageContactUs},
		{Path: "/termsandconditions", Page: PageTermsAndConditions},
		{Path: "/privacypolicies", Page: PagePrivacyPolicies},
		{Path: "/company", Page: PageCompany},
		{Path: "/industries", Page: PageIndustries},
		{Path: "/services", Page: PageServices},
		{Path: "/support", Page: PageSupport},
		{Path: "/wishlists", Page: PageWishLists},
		{Path: "/shippingreturns", Page: PageShippingReturns},
		{Path: "/productscompare/:products", Page: PageProductsCompare},
		{Path: "/write-a-review", Page: PageWriteReview},
		{Path: "/password_change", Page: PageChangePassword},
		{Path: "/password_reset", Page: PageResetPassword},
		{Path: "/newpaymentform/paymentdata", Page: PageAddPaymentMethod},
		{Path: "/b2b/account/:uri", Page: PageAccountMain},
		{Path: "/b2b/requisition-list-item", Exact: true, Page: PageRequisitionPageMain},
		{
			Path: "/b2b",
			Page: PageB2BMain,
			Routes: []routing.RouteDescriptor{
				{Path: "/b2b", Exact: true, Page: PageAccounts},
				{Path: "/b2b/address-book", Render: "Address Book"},
				{Path: "/b2b/orders", Render: "Orders"},
				{Path: "/b2b/approvals", Render: "Approvals"},
				{Path: "/b2b/invitations", Render: "Invitations"},
				{Path: "/b2b/requisition-lists", Exact: true, Page: PageRequisitionList},
				{Path: "/b2b/quotes", Render: "Quotes"},
			},
		},
	}
}

// ContentTitles maps the pages served as titled content to their message keys
var ContentTitles = map[routing.PageRef]string{
	PageCart:                "page-cart",
	PageCheckout:            "page-checkout",
	PageOrderReview:         "page-order-review",
	PageProfile:             "page-profile",
	PageOrderHistory:        "page-order-history",
	PagePurchaseReceipt:     "page-purchase-receipt",
	PageRegistration:        "page-registration",
	PageCheckoutAuth:        "page-sign-in",
	PageAboutUs:             "page-about-us",
	PageMaintenance:         "page-maintenance",
	PageContactUs:           "page-contact-us",
	PageTermsAndConditions:  "page-terms",
	PagePrivacyPolicies:     "page-privacy",
	PageCompany:             "page-company",
	PageIndustries:          "page-industries",
	PageServices:            "page-services",
	PageSupport:             "page-support",
	PageWishLists:           "page-wishlists",
	PageShippingReturns:     "page-shipping-returns",
	PageProductsCompare:     "page-products-compare",
	PageWriteReview:         "page-write-review",
	PageChangePassword:      "page-change-password",
	PageResetPassword:       "page-reset-password",
	PageAccountMain:         "page-b2b-account",
	PageRequisitionPageMain: "page-b2b-requisition-item",
}

// B2BTitles maps the pages nested under /b2b to their message keys
var B2BTitles = map[routing.PageRef]string{
	PageB2BMain:         "page-b2b",
	PageAccounts:        "page-b2b-accounts",
	PageRequisitionList: "page-b2b-requisition-lists",
}
