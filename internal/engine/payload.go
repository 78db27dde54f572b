package engine

// TagPayload is one entry of a note payload's tags list.
type TagPayload struct {
	Title string `json:"title"`
}

// NotePayload is the client-supplied note representation for create and
// update. Pointer fields distinguish "key absent" from "key present":
// a nil Tags leaves the stored tag set untouched on update, a nil Private
// means default-private on create and unchanged on update. Title and Body
// carry no such distinction on purpose: an update payload missing them
// clears the stored values.
//
// There is deliberately no owner field. The owner always comes from the
// requester identity.
type NotePayload struct {
	Title   string        `json:"title"`
	Body    string        `json:"body"`
	Private *bool         `json:"private"`
	Tags    *[]TagPayload `json:"tags"`
}
