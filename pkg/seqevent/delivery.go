package seqevent

// Checks whether the event can be handed to the bus as addressed.
//   - fixed payloads must be legal for the type; note events are
//     scheduled through a queue and cannot go direct
//   - blobs must be legal for the type
//   - pointers must be legal for the type and go direct, since the
//     referenced memory may not outlive a queueing delay
func (event *Event) CheckDelivery() (err error) {
	category := Classify(event.Type)
	mode := event.LengthMode()

	deliveryErr := func(reason string) error {
		return &DeliveryError{
			Type:   event.Type,
			Queue:  event.Queue,
			Mode:   mode,
			Reason: reason,
		}
	}

	if category == CategoryNone {
		err = deliveryErr("type is not writable to the bus")
		return
	}

	// Zeroed fixed data (nothing set yet) is valid for every fixed shape
	if event.payload != nil {
		err = event.ValidateShape(event.payload.Category())
		if err != nil {
			return
		}
	}

	switch mode {
	case LengthFixed:
		if !category.Fixed() {
			err = deliveryErr("type carries no fixed data")
			return
		}
		if category&CategoryFixed == CategoryNote && event.Queue == QueueDirect {
			err = deliveryErr("note event must be scheduled on a queue")
			return
		}
	case LengthVariable:
		if !category.Has(CategoryBlob) {
			err = deliveryErr("type carries no variable data")
			return
		}
	case LengthPointer:
		if !category.Has(CategoryPointer) {
			err = deliveryErr("type carries no pointer data")
			return
		}
		if event.Queue != QueueDirect {
			err = deliveryErr("pointer data cannot pass through a queue")
			return
		}
	}
	return
}

// Reports whether CheckDelivery passes
func (event *Event) IsDeliverable() (deliverable bool) {
	deliverable = event.CheckDelivery() == nil
	return
}
