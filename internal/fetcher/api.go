package fetcher

// apiResponse models the top-level structure of the upstream classes search
// API response.
type apiResponse struct {
	Data apiData `json:"data"`
}

type apiData struct {
	Courses      []apiCourse `json:"courses"`
	NextPageLink string      `json:"nextPageLink"`
}

type apiCourse struct {
	Sections []apiSection `json:"sections"`
}

type apiSection struct {
	CourseTitle   string       `json:"courseTitle"`
	Subject       string       `json:"subject"`
	CatalogNumber string       `json:"catalogNumber"`
	Section       string       `json:"section"`
	Meetings      []apiMeeting `json:"meetings"`
}

type apiMeeting struct {
	FacilityDescription string          `json:"facilityDescription"`
	FacilityCapacity    int             `json:"facilityCapacity"`
	Room                string          `json:"room"`
	StartTime           string          `json:"startTime"`
	EndTime             string          `json:"endTime"`
	Monday              bool            `json:"monday"`
	Tuesday             bool            `json:"tuesday"`
	Wednesday           bool            `json:"wednesday"`
	Thursday            bool            `json:"thursday"`
	Friday              bool            `json:"friday"`
	Saturday            bool            `json:"saturday"`
	Sunday              bool            `json:"sunday"`
	Instructors         []apiInstructor `json:"instructors"`
	StartDate           string          `json:"startDate"`
	EndDate             string          `json:"endDate"`
}

type apiInstructor struct {
	DisplayName string `json:"displayName"`
}
