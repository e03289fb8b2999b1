package repository

const (
	clientsTable  = "clients"
	projectsTable = "projects"

	clientColumns = `id,
		organization_id,
		company_name,
		contact_person,
		email,
		phone,
		address,
		notes,
		version,
		deleted_at,
		created_at,
		updated_at`

	projectColumns = `id,
		organization_id,
		name,
		description,
		client_id,
		status,
		start_date,
		end_date,
		budget,
		notes,
		version,
		created_at,
		updated_at`

	selectClient  = "SELECT " + clientColumns + " FROM " + clientsTable
	selectProject = "SELECT " + projectColumns + " FROM " + projectsTable
)
