package tools

// The ten task-manager operations, in the stable order they are advertised
// to the model. The credential parameter is deliberately absent from every
// schema: it is injected by the executor, never supplied by the model.
func toolDefinitions() []Tool {
	deadlineSchema := &JSONSchema{
		Type:        "string",
		Description: "Deadline in ISO 8601 format, e.g. 2025-03-19T23:59:59Z",
	}

	return []Tool{
		NewFunctionTool(
			"create_task",
			"Create a new task.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"title":       {Type: "string", Description: "Task title"},
					"description": {Type: "string", Description: "Task description"},
					"deadline":    deadlineSchema,
					"collection_id": {
						Type:        "integer",
						Description: "Id of an existing collection the task belongs to",
					},
				},
				Required: []string{"title", "description"},
			},
		),
		NewFunctionTool(
			"read_task",
			"Retrieve a task by its id.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"task_id": {Type: "integer", Description: "Task id"},
				},
				Required: []string{"task_id"},
			},
		),
		NewFunctionTool(
			"task_list",
			"Retrieve a paginated list of tasks, each with an \"id\" attribute and other fields.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"offset":    {Type: "integer", Description: "Number of tasks to skip"},
					"limit":     {Type: "integer", Description: "Maximum number of tasks to return"},
					"deadline":  {Type: "string", Description: "Only tasks due by this ISO 8601 datetime"},
					"completed": {Type: "boolean", Description: "Filter by completion status"},
				},
				Required: []string{"offset", "limit"},
			},
		),
		NewFunctionTool(
			"update_task",
			"Update an existing task by id. Only the fields named in updated_fields are changed.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"task_id": {Type: "integer", Description: "Task id"},
					"updated_fields": {
						Type:        "array",
						Description: "Names of the fields to update",
						Items:       &JSONSchema{Type: "string"},
					},
					"title":         {Type: "string", Description: "Task title"},
					"description":   {Type: "string", Description: "Task description"},
					"completed":     {Type: "boolean", Description: "Task completed status"},
					"deadline":      deadlineSchema,
					"collection_id": {Type: "integer", Description: "Collection that the task belongs to"},
				},
				Required: []string{"task_id", "updated_fields"},
			},
		),
		NewFunctionTool(
			"delete_task",
			"Delete a task by its id.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"task_id": {Type: "integer", Description: "Id of the task to delete"},
				},
				Required: []string{"task_id"},
			},
		),
		NewFunctionTool(
			"create_collection",
			"Create a new collection, optionally moving existing tasks into it.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"name": {Type: "string", Description: "Collection name"},
					"tasks": {
						Type:        "array",
						Description: "Ids of existing tasks to assign to the new collection",
						Items:       &JSONSchema{Type: "integer"},
					},
				},
				Required: []string{"name"},
			},
		),
		NewFunctionTool(
			"read_collection",
			"Retrieve a collection by its id, including its tasks.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"collection_id": {Type: "integer", Description: "Collection id"},
				},
				Required: []string{"collection_id"},
			},
		),
		NewFunctionTool(
			"collection_list",
			"Retrieve a paginated list of collections.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"offset": {Type: "integer", Description: "Number of collections to skip"},
					"limit":  {Type: "integer", Description: "Maximum number of collections to return"},
				},
				Required: []string{"offset", "limit"},
			},
		),
		NewFunctionTool(
			"update_collection",
			"Update an existing collection by id. Only the fields named in updated_fields are changed.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"collection_id": {Type: "integer", Description: "Collection id"},
					"updated_fields": {
						Type:        "array",
						Description: "Names of the fields to update",
						Items:       &JSONSchema{Type: "string"},
					},
					"name": {Type: "string", Description: "Collection name"},
				},
				Required: []string{"collection_id", "updated_fields"},
			},
		),
		NewFunctionTool(
			"delete_collection",
			"Delete a collection by its id.",
			JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"collection_id": {Type: "integer", Description: "Id of the collection to delete"},
				},
				Required: []string{"collection_id"},
			},
		),
	}
}
