// based on https://www.hyperledger.org/blog/2019/02/19/hyperledger-sawtooth-events-in-go-2
package events

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hyperledger/sawtooth-sdk-go/messaging"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/client_event_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/events_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/validator_pb2"
	"github.com/pebbe/zmq4"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

// Event is one family event as delivered by the validator
type Event struct {
	Type       string
	Attributes map[string]string
	Data       []byte
}

type Handler func(event Event) error

// EventListener subscribes to the governance family events over the
// validator zmq interface and fans them out to the registered
// handlers, one goroutine per delivery
type EventListener struct {
	log           *zap.Logger
	connection    messaging.Connection
	validatorUrl  string
	closerFunc    []func() error
	handlers      map[string]Handler
	stopListening chan bool
	wg            *sync.WaitGroup
}

func NewEventListener(logger *zap.Logger, validatorAddr string) *EventListener {
	validatorUrl := fmt.Sprint("tcp://", validatorAddr)
	return &EventListener{
		log:          logger,
		validatorUrl: validatorUrl,
		handlers:     make(map[string]Handler),
		wg:           &sync.WaitGroup{},
	}
}

// SetHandler registers a handler for one event type; call before Start
func (e *EventListener) SetHandler(eventType string, handler Handler) {
	e.handlers[eventType] = handler
}

func (e *EventListener) Start() error {
	zmqContext, err := zmq4.NewContext()
	if err != nil {
		return err
	}

	zmqConnection, err := messaging.NewConnection(
		zmqContext,
		zmq4.DEALER,
		e.validatorUrl,
		false,
	)
	if err != nil {
		return err
	}
	e.connection = zmqConnection

	for eventType := range e.handlers {
		if err := e.subscribeToEvent(eventType); err != nil {
			e.log.Error("error when subscribing to event " + eventType + ": " + err.Error())
		}
	}

	e.stopListening = make(chan bool)
	go e.listenLoop(e.stopListening)

	return nil
}

func (e EventListener) Stop() error {
	e.stopListening <- true
	var allErr error
	for _, close := range e.closerFunc {
		if err := close(); err != nil {
			allErr = multierr.Append(allErr, err)
		}
	}
	e.connection.Close()
	e.log.Info("waiting for all the event handlers to finish...")
	e.wg.Wait()
	e.log.Info("event listener handlers finished")

	return allErr
}

func (e *EventListener) listenLoop(stop chan bool) error {
	e.log.Info("start listening on governance events")

	for {
		select {
		case <-stop:
			return nil
		default:

			_, message, err := e.connection.RecvMsg()
			if err != nil {
				return err
			}
			if message.MessageType !=
				validator_pb2.Message_CLIENT_EVENTS {
				return errors.New("received a message not requested for")
			}
			eventList := events_pb2.EventList{}
			err = proto.Unmarshal(message.Content, &eventList)
			if err != nil {
				return err
			}
			for _, event := range eventList.Events {
				e.log.Debug("event received: " + event.EventType)

				handler, ok := e.handlers[event.EventType]
				if !ok {
					e.log.Warn("handler missing for the event: " + event.EventType)
					continue
				}

				e.wg.Add(1)
				go func(event *events_pb2.Event) {
					defer e.wg.Done()

					attributes := make(map[string]string, len(event.Attributes))
					for _, attribute := range event.Attributes {
						attributes[attribute.Key] = attribute.Value
					}

					if err := handler(Event{
						Type:       event.EventType,
						Attributes: attributes,
						Data:       event.GetData(),
					}); err != nil {
						e.log.Error("error when handling the event " + event.EventType + ": " + err.Error())
					}
				}(event)
			}
		}
	}
}

func (e *EventListener) subscribeToEvent(eventType string) (err error) {

	subs := events_pb2.EventSubscription{
		EventType: eventType,
	}
	request := client_event_pb2.ClientEventsSubscribeRequest{
		Subscriptions: []*events_pb2.EventSubscription{
			&subs,
		},
	}

	serializedReq, err := proto.Marshal(&request)
	if err != nil {
		return
	}

	corrId, err := e.connection.SendNewMsg(
		validator_pb2.Message_CLIENT_EVENTS_SUBSCRIBE_REQUEST,
		serializedReq,
	)
	if err != nil {
		return
	}
	e.log.Debug("waiting for receiving the subscription confirmation...")
	_, response, err := e.connection.RecvMsgWithId(corrId)
	if err != nil {
		return
	}

	subsResponse :=
		client_event_pb2.ClientEventsSubscribeResponse{}

	err = proto.Unmarshal(response.Content, &subsResponse)
	if err != nil {
		return
	}
	if subsResponse.Status !=
		client_event_pb2.ClientEventsSubscribeResponse_OK {
		return errors.New("client subscription failed, subscription status: " + subsResponse.String())
	}

	unsubscribe := func() error {
		unsubscribeRequest :=
			client_event_pb2.ClientEventsUnsubscribeRequest{}
		serializedUnsubscribeRequest, err :=
			proto.Marshal(&unsubscribeRequest)
		if err != nil {
			return err
		}

		corrId, err = e.connection.SendNewMsg(
			validator_pb2.Message_CLIENT_EVENTS_UNSUBSCRIBE_REQUEST,
			serializedUnsubscribeRequest,
		)
		if err != nil {
			return err
		}
		_, unsubscribeResponse, err :=
			e.connection.RecvMsgWithId(corrId)
		if err != nil {
			return err
		}
		eventsUnsubscribeResponse := client_event_pb2.ClientEventsUnsubscribeResponse{}
		err = proto.Unmarshal(unsubscribeResponse.Content,
			&eventsUnsubscribeResponse)
		if err != nil {
			return err
		}
		if eventsUnsubscribeResponse.Status !=
			client_event_pb2.ClientEventsUnsubscribeResponse_OK {
			return errors.New("client couldn't unsubscribe successfully, status: " + eventsUnsubscribeResponse.String())
		}

		return nil
	}

	e.closerFunc = append(e.closerFunc, unsubscribe)
	e.log.Info("successfully subscribed to event '" + eventType + "'")

	return nil
}
