package packets

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateTVRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	MacAddress  string  `json:"macAddress" binding:"required"`
}

type UpdateTVRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MacAddress  *string `json:"macAddress"`
}

type CreateContentRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	VideoURL    *string  `json:"videoUrl"`
	DocURL      *string  `json:"docUrl"`
	Status      string   `json:"status"`
	Duration    int      `json:"duration"`
	SelectedTvs []string `json:"selectedTvs"`
}

type UpdateContentRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	VideoURL    *string  `json:"videoUrl"`
	DocURL      *string  `json:"docUrl"`
	Status      *string  `json:"status"`
	Duration    *int     `json:"duration"`
	SelectedTvs []string `json:"selectedTvs"`
}

// BroadcastRequest starts the cross product of content and devices.
type BroadcastRequest struct {
	ContentID []string `json:"contentId" binding:"required"`
	TvIDs     []string `json:"tvIds" binding:"required"`
}

type StopBroadcastRequest struct {
	BroadcastIDs []string `json:"broadcastIds" binding:"required"`
}

type ByTvRequest struct {
	TvID string `json:"tvId" binding:"required"`
}
