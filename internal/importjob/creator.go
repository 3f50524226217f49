package importjob

import (
	"context"
	"errors"

	"alumni/internal/alumni"
	"alumni/internal/bulkimport"
)

// ServiceCreator submits records straight to the alumni service, answering
// the way the POST /student endpoint does.
type ServiceCreator struct {
	Service *alumni.Service
}

func (c ServiceCreator) Create(ctx context.Context, rec alumni.Record) (bulkimport.CreateResponse, error) {
	if problems := bulkimport.Problems(rec); problems != "" {
		return bulkimport.CreateResponse{Message: problems}, nil
	}
	if _, err := c.Service.Create(ctx, rec); err != nil {
		switch {
		case errors.Is(err, alumni.ErrAlreadyExists):
			return bulkimport.CreateResponse{Message: "Alumni ID already exists"}, nil
		case errors.Is(err, alumni.ErrMissingID):
			return bulkimport.CreateResponse{Message: "Alumni ID is required"}, nil
		}
		return bulkimport.CreateResponse{}, err
	}
	return bulkimport.CreateResponse{Success: true, Message: "Inserted successfully"}, nil
}
