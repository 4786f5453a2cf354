package entities

// Definition describes one entity collection exposed through the generic
// CRUD routes: its Mongo collection, the label used in not-found messages,
// and any extra query-string filters beyond the organization scope.
type Definition struct {
	Collection   string
	Label        string
	FilterFields []string
}

// Definitions is the static table of every entity behind the generic CRUD
// layer. Users are deliberately absent: they carry password handling and
// live in their own feature.
var Definitions = []Definition{
	{Collection: "contacts", Label: "Contact"},
	{Collection: "motions", Label: "Motion"},
	{Collection: "meetings", Label: "Meeting"},
	{Collection: "communications", Label: "Communication"},
	{Collection: "tasks", Label: "Task"},
	{Collection: "documents", Label: "Document"},
	{Collection: "campaigns", Label: "Campaign"},
	{Collection: "campaign_events", Label: "CampaignEvent"},
	{Collection: "campaign_expenses", Label: "CampaignExpense"},
	{Collection: "volunteers", Label: "Volunteer"},
	{Collection: "organizations", Label: "Organization", FilterFields: []string{"name", "type"}},
	{Collection: "fraction_meetings", Label: "FractionMeeting"},
	{Collection: "fraction_meeting_templates", Label: "FractionMeetingTemplate"},
	{Collection: "member_groups", Label: "MemberGroup"},
	{Collection: "media_posts", Label: "MediaPost"},
	{Collection: "print_templates", Label: "PrintTemplate"},
	{Collection: "app_settings", Label: "AppSettings"},
	{Collection: "invoices", Label: "Invoice"},
	{Collection: "support_tickets", Label: "SupportTicket"},
	{Collection: "workflow_rules", Label: "WorkflowRule"},
	{Collection: "mandate_levies", Label: "MandateLevy"},
	{Collection: "levy_rules", Label: "LevyRule"},
	{Collection: "incomes", Label: "Income"},
	{Collection: "expenses", Label: "Expense"},
	{Collection: "receipts", Label: "Receipt"},
	{Collection: "budgets", Label: "Budget"},
}
