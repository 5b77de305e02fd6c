package origins

// DemoSet is a seeded set of in-memory origins for local runs without the
// real backends.
type DemoSet struct {
	Admin     *Memory
	Community *Memory
	Volunteer *Memory
	Contact   *Memory
}

// NewDemoSet seeds each origin with a few records in its native shape.
func NewDemoSet() DemoSet {
	return DemoSet{
		Admin: NewMemoryAdmin(
			map[string]any{"_id": "adm-1", "name": "Amara Okafor", "email": "amara@example.org", "mobile": "+2348000000001", "role": "Admin", "isActive": true, "createdAt": "2024-01-05T09:00:00Z"},
			map[string]any{"_id": "adm-2", "name": "Tobi Adeyemi", "email": "tobi@example.org", "mobile": "+2348000000002", "role": "SubAdmin", "isActive": true, "createdAt": "2024-02-11T10:30:00Z"},
		),
		Community: NewMemory(NameCommunity, "",
			map[string]any{"_id": "cm-1", "name": "Ngozi Eze", "email": "ngozi@example.org", "mobile": "+2348000000101", "status": "approved", "createdAt": "2024-03-01T08:00:00Z"},
			map[string]any{"_id": "cm-2", "name": "Kemi Bello", "email": "kemi@example.org", "phone": "+2348000000102", "status": "pending", "createdAt": "2024-03-09T12:15:00Z"},
		),
		Volunteer: NewMemory(NameVolunteer, "",
			map[string]any{"_id": "vol-1", "firstName": "Jane", "lastName": "Obi", "email": "jane.obi@example.org", "mobile": "+2348000000201", "status": "pending", "createdAt": "2024-04-02T14:00:00Z"},
			map[string]any{"_id": "vol-2", "fullName": "Chidi Nwosu", "email": "chidi@example.org", "status": "approved", "createdAt": "2024-04-20T16:45:00Z", "notes": "weekend availability"},
		),
		Contact: NewMemory(NameContact, "",
			map[string]any{"_id": "ct-1", "name": "Musa Ibrahim", "email": "musa@example.org", "status": "new", "createdAt": "2024-05-03T11:00:00Z"},
			map[string]any{"_id": "ct-2", "email": "anon@example.org", "status": "replied", "createdAt": "2024-05-07T09:20:00Z"},
		),
	}
}
